package normalize

import "testing"

func TestCleanFieldVenue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "proceedings prefix",
			in:   "Proceedings of the 38th International Conference on Machine Learning",
			want: "International Conference on Machine Learning",
		},
		{
			name: "short conference name kept whole",
			in:   "Conference on Robot Learning",
			want: "Conference on Robot Learning",
		},
		{
			name: "long conference prefix stripped",
			in:   "Conference on Empirical Methods in Natural Language Processing",
			want: "Empirical Methods in Natural Language Processing",
		},
		{
			name: "advances prefix",
			in:   "Advances in Neural Information Processing Systems",
			want: "Neural Information Processing Systems",
		},
		{
			name: "leading article",
			in:   "The Journal of Machine Learning Research",
			want: "Journal of Machine Learning Research",
		},
		{
			name: "word ordinal with annual",
			in:   "Seventh Annual Meeting of the Cognitive Science Society",
			want: "Meeting of the Cognitive Science Society",
		},
		{
			name: "leading year and trailing parenthetical",
			in:   "2023 IEEE Conference on Computer Vision and Pattern Recognition (CVPR)",
			want: "IEEE Conference on Computer Vision and Pattern Recognition",
		},
		{
			name: "comma truncation",
			in:   "Nature Methods, 19(3), 261--272.",
			want: "Nature Methods",
		},
		{
			name: "arxiv casing",
			in:   "submitted to arxiv",
			want: "submitted to arXiv",
		},
		{
			name: "braces and whitespace",
			in:   "{Journal of  {Theoretical}\tBiology}",
			want: "Journal of Theoretical Biology",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanField(tt.in, true); got != tt.want {
				t.Errorf("cleanField(%q, true) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanFieldTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "conference phrase removed mid-title",
			in:   "a study of the third annual conference on machine learning",
			want: "a study of machine learning",
		},
		{
			name: "plain ordinal kept",
			in:   "The Second Law of Thermodynamics.",
			want: "The Second Law of Thermodynamics",
		},
		{
			name: "leading venue words kept in titles",
			in:   "proceedings of a long year",
			want: "proceedings of a long year",
		},
		{
			name: "trailing periods",
			in:   "What is life?..",
			want: "What is life?",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanField(tt.in, false); got != tt.want {
				t.Errorf("cleanField(%q, false) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
