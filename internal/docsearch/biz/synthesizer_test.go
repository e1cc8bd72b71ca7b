package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shreeshail-sp/docsearch/internal/model"
)

func TestSynthesize_NoResults(t *testing.T) {
	got := Synthesize("anything", nil)
	assert.Equal(t, NoAnswerMessage, got.Answer)
	assert.NotNil(t, got.Sources)
	assert.Empty(t, got.Sources)
	assert.Equal(t, 0.0, got.Confidence)
}

func TestSynthesize_SingleSentence(t *testing.T) {
	results := []model.SearchResult{{
		Rank:     1,
		Text:     "Applicants must be over 18 and reside in the state.",
		Filename: "policy.pdf",
		Score:    0.6,
	}}

	got := Synthesize("What is the eligibility criteria?", results)
	assert.Equal(t, "Applicants must be over 18 and reside in the state.", got.Answer)
	assert.Equal(t, 0.6, got.Confidence)
	assert.Equal(t, []model.Source{{Filename: "policy.pdf", Score: 0.6}}, got.Sources)
}

func TestSynthesize_LowConfidenceFallback(t *testing.T) {
	results := func(score float64) []model.SearchResult {
		return []model.SearchResult{
			{Rank: 1, Text: "Zeta content without matching words here.", Filename: "a.txt", Score: score},
			{Rank: 2, Text: "The refund policy allows returns within 30 days.", Filename: "b.txt", Score: score - 0.1},
		}
	}

	tests := []struct {
		name  string
		score float64
		want  string
	}{
		{"低分合并前两个分块", 0.2, "The refund policy allows returns within 30 days. Zeta content without matching words here."},
		{"高分只用首个分块", 0.4, "Zeta content without matching words here."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize("refund policy", results(tt.score))
			assert.Equal(t, tt.want, got.Answer)
			assert.Equal(t, tt.score, got.Confidence)
		})
	}
}

func TestSynthesize_LowScoreSingleResult(t *testing.T) {
	got := Synthesize("refund", []model.SearchResult{
		{Text: "Refunds are processed weekly.", Filename: "a.txt", Score: 0.1},
	})
	assert.Equal(t, "Refunds are processed weekly.", got.Answer)
	assert.Equal(t, 0.1, got.Confidence)
}

func TestSynthesize_Sources(t *testing.T) {
	results := []model.SearchResult{
		{Text: "first document sentence.", Filename: "a.pdf", Score: 0.9},
		{Text: "second document sentence.", Filename: "b.pdf", Score: 0.8},
		{Text: "first document again here.", Filename: "a.pdf", Score: 0.7},
		{Text: "third document sentence.", Filename: "c.txt", Score: 0.5},
	}

	got := Synthesize("document", results)
	assert.Equal(t, []model.Source{
		{Filename: "a.pdf", Score: 0.9},
		{Filename: "b.pdf", Score: 0.8},
		{Filename: "c.txt", Score: 0.5},
	}, got.Sources)
}

func TestExtractAnswer(t *testing.T) {
	long := func(c string, n int) string { return strings.Repeat(c, n) }

	tests := []struct {
		name     string
		query    string
		evidence string
		want     string
	}{
		{
			name:     "按关键词得分排序并保持稳定",
			query:    "solar panels",
			evidence: "The roof is made of tiles. Solar panels reduce bills. Panels need cleaning often! Weather is sunny today.",
			want:     "Solar panels reduce bills. Panels need cleaning often. The roof is made of tiles.",
		},
		{
			name:     "最多三句",
			query:    "x",
			evidence: "sentence one is here. sentence two is here. sentence three is here. sentence four is here.",
			want:     "sentence one is here. sentence two is here. sentence three is here.",
		},
		{
			name:     "字符预算",
			query:    "",
			evidence: long("a", 200) + ". " + long("b", 200) + ". " + long("c", 200) + ".",
			want:     long("a", 200) + ". " + long("b", 200) + ".",
		},
		{
			name:     "单句超出预算时取最高分句子",
			query:    "key",
			evidence: long("k", 600) + ". short key sentence.",
			want:     "short key sentence.",
		},
		{
			name:     "全部句子都超出预算",
			query:    "",
			evidence: long("a", 600) + ". " + long("b", 700),
			want:     long("a", 600) + ".",
		},
		{
			name:     "没有足够长的句子时取前 300 字符",
			query:    "tiny",
			evidence: "short. tiny!",
			want:     "short. tiny!",
		},
		{
			name:     "回退截断为 300 字符",
			query:    "",
			evidence: strings.Repeat("abc. ", 100),
			want:     strings.Repeat("abc. ", 60),
		},
		{
			name:     "子串匹配",
			query:    "cat",
			evidence: "Dogs are loyal animals. Each category has rules.",
			want:     "Each category has rules. Dogs are loyal animals.",
		},
		{
			name:     "停用词不计分",
			query:    "what is the",
			evidence: "What is this thing here. The other thing is there.",
			want:     "What is this thing here. The other thing is there.",
		},
		{
			name:     "十个字符的句子被丢弃",
			query:    "",
			evidence: "0123456789. 0123456789a.",
			want:     "0123456789a.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractAnswer(tt.query, tt.evidence))
		})
	}
}

func TestQueryKeywords(t *testing.T) {
	assert.Equal(t, []string{"eligibility", "criteria?"}, queryKeywords("What is the eligibility criteria?"))
	assert.Equal(t, []string{"solar"}, queryKeywords("SOLAR solar   Solar"))
	assert.Empty(t, queryKeywords("what is it"))

	t.Run("标点保留", func(t *testing.T) {
		keywords := queryKeywords("Refund deadline, criteria?")
		assert.Equal(t, []string{"refund", "deadline,", "criteria?"}, keywords)
		assert.NotContains(t, keywords, "criteria")
	})
}

func TestSynthesize_RealisticEvidence(t *testing.T) {
	text := "Eligibility requires residency in the state. Applicants must be over 18. " +
		"The application fee is non-refundable.\nDecisions are sent by mail."
	got := Synthesize("Who is eligible for residency applicants", []model.SearchResult{
		{Text: text, Filename: "rules.docx", Score: 0.75},
	})
	require.NotEmpty(t, got.Answer)
	assert.True(t, strings.HasPrefix(got.Answer, "Eligibility requires residency in the state."))
	assert.True(t, strings.HasSuffix(got.Answer, "."))
}
