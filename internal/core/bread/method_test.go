package bread

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectMethodEnrichedYeastBakeSwap(t *testing.T) {
	t.Parallel()

	enriched := DoughClassification{Type: DoughEnriched}

	withEggs := SelectMethod(SourdoughToYeast, enriched, true, MethodDetails{})
	bake := withEggs[len(withEggs)-1]
	assert.Contains(t, bake.Change, "350°F")
	assert.Equal(t, "30-35 minutes", bake.Timing)

	noEggs := SelectMethod(SourdoughToYeast, DoughClassification{Type: DoughSweet}, false, MethodDetails{})
	bake = noEggs[len(noEggs)-1]
	assert.Contains(t, bake.Change, "375°F")
	assert.Equal(t, "35-40 minutes", bake.Timing)
}

func TestSelectMethodFamilies(t *testing.T) {
	t.Parallel()

	lean := DoughClassification{Type: DoughLean}
	enriched := DoughClassification{Type: DoughEnriched}
	d := MethodDetails{Starter: 100, LevainSeed: 20, LevainWater: 40, LevainFlour: 40, Flour: 500, Water: 350, Salt: 10, Yeast: 3.85}

	leanYeast := SelectMethod(SourdoughToYeast, lean, false, d)
	require.Len(t, leanYeast, len(leanYeastSteps))
	assert.Contains(t, leanYeast[0].Change, "3.85g instant yeast")
	assert.Contains(t, leanYeast[0].Change, "10g salt")
	assert.NotContains(t, leanYeast[0].Change, "{")

	assert.Len(t, SelectMethod(SourdoughToYeast, enriched, false, d), len(enrichedYeastSteps))

	leanSour := SelectMethod(YeastToSourdough, lean, false, d)
	require.Len(t, leanSour, len(levainSteps)+len(leanSourdoughSteps))
	assert.Equal(t, "Build the levain", leanSour[0].Step)
	assert.Equal(t, "Cold retard", leanSour[len(levainSteps)+2].Step)

	enrichedSour := SelectMethod(YeastToSourdough, enriched, true, d)
	assert.Len(t, enrichedSour, len(levainSteps)+len(enrichedSourdoughSteps))

	d.Flat = true
	flat := SelectMethod(YeastToSourdough, lean, false, d)
	require.Len(t, flat, len(flatMixSteps)+len(leanSourdoughSteps))
	assert.Contains(t, flat[0].Change, "100g active starter")

	assert.Empty(t, SelectMethod(Direction("sideways"), lean, false, d))
}

func TestSelectTroubleshooting(t *testing.T) {
	t.Parallel()

	lean := DoughClassification{Type: DoughLean}
	sweet := DoughClassification{Type: DoughSweet}

	assert.Equal(t, yeastLeanTips, SelectTroubleshooting(SourdoughToYeast, lean))
	assert.Equal(t, yeastEnrichedTips, SelectTroubleshooting(SourdoughToYeast, sweet))
	assert.Equal(t, sourdoughLeanTips, SelectTroubleshooting(YeastToSourdough, lean))
	assert.Equal(t, sourdoughEnrichedTips, SelectTroubleshooting(YeastToSourdough, sweet))

	tips := SelectTroubleshooting(SourdoughToYeast, lean)
	tips[0].Issue = "changed"
	assert.NotEqual(t, "changed", yeastLeanTips[0].Issue)
}

func TestFormatGrams(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100", formatGrams(100))
	assert.Equal(t, "3.85", formatGrams(3.85))
	assert.Equal(t, "4.95", formatGrams(550*activeDryYeastRatio))
	assert.Equal(t, "66.67", formatGrams(200.0/3))
}
