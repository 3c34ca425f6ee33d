package condition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordConditionSubstring(t *testing.T) {
	ctx := NewEvaluationContext("Devs Dumping: 1,000 tokens moved", "Liquidity is stable.", "No honeypot behavior detected.")

	assert.True(t, NewKeywordCondition("dumping", FieldAny).Evaluate(ctx))
	assert.True(t, NewKeywordCondition("DUMPING", FieldDevDump).Evaluate(ctx))
	assert.False(t, NewKeywordCondition("dumping", FieldLiquidity).Evaluate(ctx))
	// 子串语义，"no honeypot" 也算命中
	assert.True(t, NewKeywordCondition("honeypot", FieldHoneypot).Evaluate(ctx))
	assert.False(t, NewKeywordCondition("", FieldAny).Evaluate(ctx))
	assert.False(t, NewKeywordCondition("dumping", "unknown").Evaluate(ctx))
}

func TestCompositeCondition(t *testing.T) {
	ctx := NewEvaluationContext("a", "Liquidity pool dropped 40.0% in 24h.", "c")

	or := NewBuilder().Name("any").Keywords(FieldAny, "dropped", "missing").Build()
	assert.True(t, or.Evaluate(ctx))
	assert.Equal(t, []string{"dropped"}, or.(*CompositeCondition).Matched(ctx))

	and := NewBuilder().
		And(NewKeywordCondition("dropped", FieldLiquidity)).
		And(NewKeywordCondition("missing", FieldLiquidity)).
		Build()
	assert.False(t, and.Evaluate(ctx))

	not := NewBuilder().Not(NewKeywordCondition("missing", FieldAny)).Build()
	assert.True(t, not.Evaluate(ctx))

	single := NewBuilder().And(NewKeywordCondition("a", FieldDevDump)).Build()
	_, isKeyword := single.(*KeywordCondition)
	assert.True(t, isKeyword)

	empty := &CompositeCondition{Operator: AND}
	assert.False(t, empty.Evaluate(ctx))
}

func TestScoreCondition(t *testing.T) {
	cond := NewConditionFactory().CreateScoreCondition("alert", "score >= 85", ">=", 85)

	assert.True(t, cond.Evaluate(NewEvaluationContext("", "", "").WithScore(85)))
	assert.False(t, cond.Evaluate(NewEvaluationContext("", "", "").WithScore(84.99)))
	assert.False(t, cond.Evaluate(nil))
}

func TestBuilderKeywordsUseFactory(t *testing.T) {
	built := NewBuilder().Name("risk").Keywords(FieldHoneypot, "High Sell Tax", "honeypot").Build()
	composite, ok := built.(*CompositeCondition)
	assert.True(t, ok)
	assert.Equal(t, OR, composite.Operator)

	want := NewConditionFactory().CreateKeywordCondition("High Sell Tax", FieldHoneypot)
	assert.Equal(t, want, composite.Conditions[0])
	assert.Equal(t, "high sell tax", composite.Conditions[0].GetName())

	ctx := NewEvaluationContext("", "", "High sell tax (35.5%) — may trap sellers.")
	assert.Equal(t, []string{"high sell tax"}, composite.Matched(ctx))
}
