package viewfilter

import (
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contact struct {
	Name string
	City string
}

func (c contact) DisplayValues() []string {
	return []string{c.Name, c.City}
}

type labelled string

func (l labelled) String() string { return "label:" + string(l) }

func TestTokenize(t *testing.T) {
	assert.Nil(t, Tokenize("   ", true))
	assert.Equal(t, []string{"foo", "bar"}, Tokenize("  FOO \t bar ", true))
	assert.Equal(t, []string{"FOO", "bar"}, Tokenize("FOO bar", false))
}

func TestSameTokensIgnoresOrderDuplicatesAndBlanks(t *testing.T) {
	assert.True(t, SameTokens([]string{"foo", "bar"}, []string{"bar", "foo"}))
	assert.True(t, SameTokens([]string{"foo", "", "bar"}, []string{"bar", "foo", "foo"}))
	assert.True(t, SameTokens(nil, []string{"", ""}))
	assert.False(t, SameTokens([]string{"foo"}, []string{"foo", "baz"}))
}

func TestContainsOperators(t *testing.T) {
	tokens := []string{"alpha", "beta"}
	tests := []struct {
		op   LogicalOperator
		text string
		want bool
	}{
		{OR, "Alpha only", true},
		{OR, "gamma", false},
		{AND, "ALPHA and BETA", true},
		{AND, "alpha", false},
		{NotOR, "gamma", true},
		{NotOR, "beta", false},
		{NotAND, "alpha", true},
		{NotAND, "alpha beta", false},
	}
	for _, tt := range tests {
		t.Run(tt.op.String()+"/"+tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Contains(tt.op, tokens, tt.text))
		})
	}
}

func TestParseOperator(t *testing.T) {
	op, err := ParseOperator("not-and")
	require.NoError(t, err)
	assert.Equal(t, NotAND, op)

	op, err = ParseOperator("")
	require.NoError(t, err)
	assert.Equal(t, OR, op)

	_, err = ParseOperator("xor")
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation))
}

func TestFilterTokenSetIdempotence(t *testing.T) {
	f := New[contact]()

	assert.True(t, f.SetMatchTokens("foo bar"))
	assert.False(t, f.SetMatchTokens("bar foo"))
	assert.False(t, f.SetMatchTokens("foo  bar"))
	assert.False(t, f.SetMatchTokens("FOO bar bar"))
	assert.True(t, f.SetMatchTokens("foo"))
	assert.True(t, f.SetMatchTokens(""))
	assert.True(t, f.SkipMatching())
	assert.False(t, f.SetMatchTokens("   "))
}

func TestFilterMatchUsesDisplayValues(t *testing.T) {
	f := New[contact](WithLogic[contact](AND))
	f.SetMatchTokens("ann oslo")

	assert.True(t, f.Match(contact{Name: "Anna", City: "Oslo"}))
	assert.False(t, f.Match(contact{Name: "Anna", City: "Bergen"}))
}

func TestFilterProjectionAndMatcherResetTokens(t *testing.T) {
	f := New[labelled]()
	f.SetMatchTokens("label")
	assert.True(t, f.Match("x"))

	f.SetProjection(func(l labelled) string { return string(l) })
	assert.True(t, f.SkipMatching())
	assert.True(t, f.SetMatchTokens("label"))
	assert.False(t, f.Match("x"))

	f.SetMatcher(func(item labelled, tokens []string) bool {
		return len(tokens) == 2 && strings.HasPrefix(string(item), tokens[0])
	})
	assert.True(t, f.SkipMatching())
	assert.True(t, f.SetMatchTokens("Ab cd"))
	assert.Equal(t, []string{"Ab", "cd"}, f.Tokens())
	assert.True(t, f.Match("Abc"))
	// order matters for custom matchers
	assert.True(t, f.SetMatchTokens("cd Ab"))
}

func TestCombinators(t *testing.T) {
	startsA := func(s string) bool { return strings.HasPrefix(s, "A") }
	endsZ := func(s string) bool { return strings.HasSuffix(s, "z") }

	assert.True(t, All(startsA, endsZ, nil)("Abz"))
	assert.False(t, All(startsA, endsZ)("Ab"))
	assert.True(t, Any(startsA, endsZ)("bz"))
	assert.False(t, Any[string]()("bz"))
	assert.True(t, Not(startsA)("b"))

	p := Predicate[string](OR, []string{"ca"}, nil)
	assert.True(t, p("Carrot"))
	assert.False(t, p("Apple"))
}
