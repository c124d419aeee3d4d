package bread

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"bread-converter/internal/pkg/common"
)

// 轉換後檢查的門檻
const (
	defaultSaltPercent     = 2.0
	minSaltPercent         = 1.5
	maxSaltRangePercent    = 3.0
	hydrationTolerance     = 2.0
	hydrationWarnThreshold = 10.0
	levainTolerance        = 1.0
)

var finishingFlourKeywords = []string{"dusting", "topping", "finishing"}

// Validator 轉換後的檢查與自動修正
type Validator struct {
	opts Options
}

// NewValidator 建立驗證器
func NewValidator(opts Options) *Validator {
	return &Validator{opts: opts}
}

// validationRun 單次驗證累積的結果
type validationRun struct {
	warnings []RecipeWarning
	fixes    []string
}

func (v *validationRun) warn(sev Severity, format string, args ...interface{}) {
	v.warnings = append(v.warnings, RecipeWarning{Type: sev, Message: fmt.Sprintf(format, args...)})
}

func (v *validationRun) fix(format string, args ...interface{}) {
	v.fixes = append(v.fixes, fmt.Sprintf(format, args...))
}

// ValidateConversion 依序執行各項檢查，後面的檢查看得到前面的修正。
// 不會失敗，對自己的輸出再跑一次不會產生新的修正。
func (val *Validator) ValidateConversion(conv ConvertedRecipe) ValidationResult {
	out := conv
	out.Converted = conv.Converted.Clone()
	out.Warnings = append([]RecipeWarning{}, conv.Warnings...)
	r := &out.Converted
	run := &validationRun{}

	val.checkSalt(r, run)
	checkFinishingFlour(r, run)
	checkHydration(r, run)
	val.checkLevain(out, run)
	if !(r.TotalFlour > 0) {
		run.warn(SeverityWarning, "Total flour is zero, so baker's percentages cannot be calculated.")
	}
	checkEssentials(r, run)

	seen := make(map[string]bool, len(out.Warnings))
	for _, w := range out.Warnings {
		seen[w.Message] = true
	}
	for _, w := range run.warnings {
		if !seen[w.Message] {
			out.Warnings = append(out.Warnings, w)
			seen[w.Message] = true
		}
	}

	if run.warnings == nil {
		run.warnings = []RecipeWarning{}
	}
	if run.fixes == nil {
		run.fixes = []string{}
	}
	return ValidationResult{
		Recipe:             out,
		ValidationWarnings: run.warnings,
		AutoFixes:          run.fixes,
	}
}

// checkSalt 沒有鹽時補上麵粉量 2%，否則只檢查範圍
func (val *Validator) checkSalt(r *ParsedRecipe, run *validationRun) {
	if !(r.SaltAmount > 0) {
		// 沒有麵粉就無法算 2%，這裡不補也不警告，缺鹽由 checkEssentials 的 info 提示
		if !(r.TotalFlour > 0) {
			return
		}
		salt := math.Round(r.TotalFlour * defaultSaltPercent / 100)
		r.Ingredients = append(r.Ingredients, ParsedIngredient{
			Name:   "salt",
			Amount: salt,
			Unit:   GramUnit,
			Type:   TypeSalt,
		})
		r.SaltAmount = salt
		run.fix("Added %sg salt (2%% of flour weight) because the recipe had none.", formatGrams(salt))
		return
	}
	if !(r.TotalFlour > 0) {
		return
	}
	pct := r.SaltAmount / r.TotalFlour * 100
	if pct < minSaltPercent || pct > maxSaltRangePercent {
		run.warn(SeverityCaution, "Salt is %.1f%% of the flour weight; most breads use %.1f-%.0f%%.",
			pct, minSaltPercent, maxSaltRangePercent)
	}
}

// checkFinishingFlour 名稱看起來是撒粉的麵粉只提示，不改總量
func checkFinishingFlour(r *ParsedRecipe, run *validationRun) {
	for _, ing := range r.Ingredients {
		if ing.Type != TypeFlour {
			continue
		}
		name := strings.ToLower(ing.Name)
		for _, kw := range finishingFlourKeywords {
			if strings.Contains(name, kw) {
				run.warn(SeverityInfo, "%q looks like %s flour; it is counted in the flour total.", ing.Name, kw)
				break
			}
		}
	}
}

// checkHydration 由總量重算含水率，差距超過 2 點即覆寫
func checkHydration(r *ParsedRecipe, run *validationRun) {
	recomputed := Hydration(r.TotalLiquid, r.TotalFlour)
	if !isFinite(recomputed) {
		return
	}
	stored := r.Hydration
	if isFinite(stored) {
		diff := math.Abs(recomputed - stored)
		if diff <= hydrationTolerance {
			return
		}
		r.Hydration = recomputed
		run.fix("Hydration corrected from %.1f%% to %.1f%% to match the ingredient totals.", stored, recomputed)
		if diff > hydrationWarnThreshold {
			run.warn(SeverityWarning, "Hydration changed by %.1f points after recalculation; double-check the ingredient amounts.", diff)
		}
		return
	}
	r.Hydration = recomputed
	run.fix("Hydration was undefined and has been recalculated as %.1f%%.", recomputed)
	run.warn(SeverityWarning, "Hydration could not be calculated from the conversion; double-check the ingredient amounts.")
}

// checkLevain levain 小計與酵種用量的交叉比對
func (val *Validator) checkLevain(conv ConvertedRecipe, run *validationRun) {
	if conv.Direction != YeastToSourdough || conv.Levain == nil {
		return
	}
	subtotal := conv.Levain.Starter + conv.Levain.Water + conv.Levain.Flour
	common.LogDebug("levain 小計",
		zap.Float64("subtotal", subtotal),
		zap.Float64("starter_amount", conv.Converted.StarterAmount),
	)
	if val.opts.EnforceLevainTotals && math.Abs(subtotal-conv.Converted.StarterAmount) > levainTolerance {
		run.warn(SeverityWarning, "The levain build adds up to %sg but the recipe uses %sg of starter.",
			formatGrams(subtotal), formatGrams(conv.Converted.StarterAmount))
	}
}

// checkEssentials 缺少主要材料時提醒；缺鹽只是 info
func checkEssentials(r *ParsedRecipe, run *validationRun) {
	if !r.HasType(TypeFlour) {
		run.warn(SeverityWarning, "No flour found in the converted recipe.")
	}
	if !r.HasType(TypeLiquid) {
		run.warn(SeverityWarning, "No liquid found in the converted recipe.")
	}
	if !r.HasType(TypeYeast) && !r.HasType(TypeStarter) {
		run.warn(SeverityWarning, "No leavening (yeast or starter) found in the converted recipe.")
	}
	if !r.HasType(TypeSalt) {
		run.warn(SeverityInfo, "No salt found in the converted recipe.")
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
