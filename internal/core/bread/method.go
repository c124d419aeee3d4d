package bread

import (
	"math"
	"strconv"
	"strings"
)

// MethodDetails 填入做法模板的數值（克）
type MethodDetails struct {
	Starter     float64
	LevainSeed  float64
	LevainWater float64
	LevainFlour float64
	Flour       float64
	Water       float64
	Salt        float64
	Yeast       float64
	// Flat 食材太少時不拆 levain／主麵團兩階段
	Flat bool
}

type methodStep struct {
	step   string
	change string
	timing string
}

var levainSteps = []methodStep{
	{
		step:   "Build the levain",
		change: "Mix {levain_seed}g active starter with {levain_water}g water and {levain_flour}g flour. Cover and leave at warm room temperature until doubled, domed and bubbly.",
		timing: "4-12 hours",
	},
	{
		step:   "Autolyse",
		change: "Mix the {flour}g flour with the {water}g liquid until no dry flour remains. Cover and rest.",
		timing: "30-60 minutes",
	},
	{
		step:   "Mix the dough",
		change: "Add {starter}g of the ripe levain and {salt}g salt. Squeeze and fold until fully incorporated.",
	},
}

var flatMixSteps = []methodStep{
	{
		step:   "Mix",
		change: "Combine {starter}g active starter (fed 4-12 hours earlier and at its peak), {water}g liquid, {flour}g flour and {salt}g salt until no dry flour remains.",
		timing: "5 minutes, then rest 30 minutes",
	},
}

var leanSourdoughSteps = []methodStep{
	{
		step:   "Bulk fermentation",
		change: "Perform 4 sets of stretch and folds 30 minutes apart, then leave the dough untouched until it has grown 50-75% and feels airy.",
		timing: "4-6 hours at 24°C (75°F)",
	},
	{
		step:   "Shape",
		change: "Pre-shape into a loose round, rest, then shape tightly and place seam-side up in a floured banneton.",
		timing: "20-30 minutes",
	},
	{
		step:   "Cold retard",
		change: "Cover and refrigerate. The long cold proof develops flavor and makes scoring easier.",
		timing: "8-16 hours",
	},
	{
		step:   "Bake",
		change: "Bake straight from the fridge in a preheated Dutch oven at 250°C (480°F), 20 minutes covered then uncovered at 230°C (450°F) until deep brown.",
		timing: "40-45 minutes",
	},
}

var enrichedSourdoughSteps = []methodStep{
	{
		step:   "Develop and enrich",
		change: "Knead until the dough is smooth, then add the butter or fat a little at a time. Sugar and fat slow the starter down, so expect a longer rise.",
		timing: "10-15 minutes",
	},
	{
		step:   "Bulk fermentation",
		change: "Leave covered in a warm spot until the dough has risen by about 50%.",
		timing: "6-10 hours at 24-26°C (75-79°F)",
	},
	{
		step:   "Shape",
		change: "Shape and place in a greased loaf pan or on a lined tray.",
	},
	{
		step:   "Final proof",
		change: "Proof until the dough is puffy and springs back slowly when pressed. An overnight proof in the fridge also works.",
		timing: "3-5 hours",
	},
	{
		step:   "Bake",
		change: "Brush with egg wash if desired and bake at 180°C (350°F) until golden and the center reads 88°C (190°F).",
		timing: "35-45 minutes",
	},
}

var leanYeastSteps = []methodStep{
	{
		step:   "Mix",
		change: "Combine {flour}g flour, {water}g liquid and {yeast}g instant yeast. Add {salt}g salt after a few minutes so it does not sit directly on the yeast. No levain build is needed.",
		timing: "5 minutes",
	},
	{
		step:   "Knead",
		change: "Knead until smooth and elastic, or use 3 sets of stretch and folds during the first hour.",
		timing: "8-10 minutes",
	},
	{
		step:   "Bulk fermentation",
		change: "Cover and leave until doubled. Yeasted dough ferments much faster than sourdough, so watch the dough rather than the clock.",
		timing: "1-2 hours at 24°C (75°F)",
	},
	{
		step:   "Shape",
		change: "Shape into a tight round or batard and place on a floured towel or in a banneton.",
	},
	{
		step:   "Final proof",
		change: "Proof until about 1.5 times its size. An overnight cold retard is optional and adds flavor.",
		timing: "45-60 minutes",
	},
	{
		step:   "Bake",
		change: "Bake at 230°C (450°F) with steam for the first 15 minutes, until deep golden and hollow-sounding.",
		timing: "30-35 minutes",
	},
}

var enrichedYeastSteps = []methodStep{
	{
		step:   "Mix",
		change: "Combine {flour}g flour, {water}g liquid, {yeast}g instant yeast and the eggs and sugar. Add {salt}g salt after a few minutes.",
		timing: "5 minutes",
	},
	{
		step:   "Knead and enrich",
		change: "Knead until the dough starts to become smooth, then add the soft butter gradually and knead until it passes the windowpane test.",
		timing: "10-15 minutes",
	},
	{
		step:   "Bulk fermentation",
		change: "Cover and leave in a warm spot until doubled.",
		timing: "1-1.5 hours",
	},
	{
		step:   "Shape",
		change: "Shape and place in a greased pan.",
	},
	{
		step:   "Final proof",
		change: "Proof until the dough crowns just above the pan rim.",
		timing: "45-60 minutes",
	},
	{
		step:   "Bake",
		change: "Bake at {bake_temp} until golden brown.",
		timing: "{bake_time}",
	},
}

// SelectMethod 依方向與麵團類型選擇做法模板並填入數值
func SelectMethod(direction Direction, class DoughClassification, hasEggs bool, d MethodDetails) []MethodChange {
	bakeTemp, bakeTime := "375°F (190°C)", "35-40 minutes"
	if hasEggs {
		bakeTemp, bakeTime = "350°F (175°C)", "30-35 minutes"
	}

	var steps []methodStep
	switch direction {
	case YeastToSourdough:
		if d.Flat {
			steps = append(steps, flatMixSteps...)
		} else {
			steps = append(steps, levainSteps...)
		}
		if class.IsEnriched() {
			steps = append(steps, enrichedSourdoughSteps...)
		} else {
			steps = append(steps, leanSourdoughSteps...)
		}
	case SourdoughToYeast:
		if class.IsEnriched() {
			steps = enrichedYeastSteps
		} else {
			steps = leanYeastSteps
		}
	default:
		return []MethodChange{}
	}

	r := strings.NewReplacer(
		"{starter}", formatGrams(d.Starter),
		"{levain_seed}", formatGrams(d.LevainSeed),
		"{levain_water}", formatGrams(d.LevainWater),
		"{levain_flour}", formatGrams(d.LevainFlour),
		"{flour}", formatGrams(d.Flour),
		"{water}", formatGrams(d.Water),
		"{salt}", formatGrams(d.Salt),
		"{yeast}", formatGrams(d.Yeast),
		"{bake_temp}", bakeTemp,
		"{bake_time}", bakeTime,
	)

	out := make([]MethodChange, 0, len(steps))
	for _, s := range steps {
		out = append(out, MethodChange{
			Step:   s.step,
			Change: r.Replace(s.change),
			Timing: r.Replace(s.timing),
		})
	}
	return out
}

// formatGrams 最多兩位小數，去掉多餘的 0
func formatGrams(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}
