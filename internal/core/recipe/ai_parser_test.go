package recipe

import (
	"context"
	"errors"
	"testing"

	"bread-converter/internal/core/ai/service"
	"bread-converter/internal/core/bread"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRequester struct {
	mock.Mock
}

func (m *mockRequester) ProcessRequest(ctx context.Context, system, prompt, imageData string) (*service.Response, error) {
	args := m.Called(ctx, system, prompt, imageData)
	if resp := args.Get(0); resp != nil {
		return resp.(*service.Response), args.Error(1)
	}
	return nil, args.Error(1)
}

const aiCountryLoaf = "```json\n" + `{"ingredients":[
{"name":"bread flour","amount":500,"unit":"g","type":"flour"},
{"name":"water","amount":350,"unit":"g","type":"liquid"},
{"name":"levain","amount":100,"unit":"g","type":"starter"},
{"name":"salt","amount":10,"unit":"g","type":""}
],"method":"Mix and bake"}` + "\n```"

func TestAIParserParseRecipe(t *testing.T) {
	req := new(mockRequester)
	req.On("ProcessRequest", mock.Anything, parserSystemPrompt, mock.MatchedBy(func(p string) bool {
		return containsAll(p, countryLoafText)
	}), "").Return(&service.Response{Content: aiCountryLoaf}, nil)

	p := NewAIParser(req, bread.NewEngine(bread.Options{}))
	recipe, err := p.ParseRecipe(context.Background(), countryLoafText, 100)
	require.NoError(t, err)

	require.Len(t, recipe.Ingredients, 4)
	assert.Equal(t, bread.TypeStarter, recipe.Ingredients[2].Type)
	assert.Equal(t, bread.TypeSalt, recipe.Ingredients[3].Type, "empty type falls back to the local rules")
	assert.InDelta(t, 550, recipe.TotalFlour, 1e-9)
	assert.InDelta(t, 400, recipe.TotalLiquid, 1e-9)
	assert.Equal(t, "Mix and bake", recipe.Method)
	req.AssertExpectations(t)
}

func TestAIParserFallsBackToGrams(t *testing.T) {
	req := new(mockRequester)
	req.On("ProcessRequest", mock.Anything, mock.Anything, mock.Anything, "").Return(&service.Response{
		Content: `{ingredients:[{name:"bread flour",amount:500,unit:"g",type:"flour"},{name:"mystery spice",amount:5,unit:"g",type:"banana"}],method:""}`,
	}, nil)

	p := NewAIParser(req, bread.NewEngine(bread.Options{}))
	recipe, err := p.ParseRecipe(context.Background(), "anything", 100)
	require.NoError(t, err)

	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, bread.ParsedIngredient{Name: "mystery spice", Amount: 5, Unit: bread.GramUnit, Type: bread.TypeOther}, recipe.Ingredients[1])
}

func TestAIParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
	}{
		{"request failed", "", errors.New("upstream down")},
		{"not json", "I cannot help with that", nil},
		{"no ingredients", `{"ingredients":[],"method":""}`, nil},
		{"only invalid items", `{"ingredients":[{"name":"","amount":5},{"name":"flour","amount":0}]}`, nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			req := new(mockRequester)
			if tt.err != nil {
				req.On("ProcessRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, tt.err)
			} else {
				req.On("ProcessRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&service.Response{Content: tt.content}, nil)
			}

			p := NewAIParser(req, bread.NewEngine(bread.Options{}))
			recipe, err := p.ParseRecipe(context.Background(), "text", 100)
			assert.Error(t, err)
			assert.Nil(t, recipe)
		})
	}
}

func TestAIParserWithoutRequester(t *testing.T) {
	p := NewAIParser(nil, bread.NewEngine(bread.Options{}))
	_, err := p.ParseRecipe(context.Background(), "text", 100)
	assert.Error(t, err)
}
