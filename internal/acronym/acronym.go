// Package acronym restores canonical casing for known acronyms after
// title-casing has run.
package acronym

import (
	"regexp"
	"sort"
	"strings"
)

// builtin maps lowercase tokens to their display casing. Plural forms
// are separate entries so whole-word matching stays exact.
var builtin = map[string]string{
	"ai":     "AI",
	"api":    "API",
	"arxiv":  "arXiv",
	"bert":   "BERT",
	"cnn":    "CNN",
	"cnns":   "CNNs",
	"covid":  "COVID",
	"cpu":    "CPU",
	"cpus":   "CPUs",
	"dna":    "DNA",
	"gan":    "GAN",
	"gans":   "GANs",
	"gpt":    "GPT",
	"gpu":    "GPU",
	"gpus":   "GPUs",
	"hiv":    "HIV",
	"hmm":    "HMM",
	"hmms":   "HMMs",
	"json":   "JSON",
	"llm":    "LLM",
	"llms":   "LLMs",
	"lstm":   "LSTM",
	"lstms":  "LSTMs",
	"mcmc":   "MCMC",
	"nlp":    "NLP",
	"rl":     "RL",
	"rna":    "RNA",
	"sars":   "SARS",
	"sql":    "SQL",
	"svm":    "SVM",
	"svms":   "SVMs",
	"url":    "URL",
	"urls":   "URLs",
}

// rule pairs a compiled whole-word pattern with its replacement.
type rule struct {
	re    *regexp.Regexp
	canon string
}

// Fixer rewrites case-insensitive whole-word acronym matches to their
// canonical casing.
type Fixer struct {
	rules []rule
}

// NewFixer builds a fixer from the built-in table merged with extra
// entries (extra wins on collision). Keys are compiled in sorted order
// so behavior is deterministic.
func NewFixer(extra map[string]string) *Fixer {
	merged := make(map[string]string, len(builtin)+len(extra))
	for k, v := range builtin {
		merged[strings.ToLower(k)] = v
	}
	for k, v := range extra {
		merged[strings.ToLower(k)] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := &Fixer{rules: make([]rule, 0, len(keys))}
	for _, k := range keys {
		f.rules = append(f.rules, rule{
			re:    regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`),
			canon: merged[k],
		})
	}
	return f
}

// Fix replaces every whole-word occurrence of every known acronym.
func (f *Fixer) Fix(text string) string {
	for _, r := range f.rules {
		text = r.re.ReplaceAllLiteralString(text, r.canon)
	}
	return text
}
