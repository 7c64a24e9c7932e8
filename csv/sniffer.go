package csv

// The dialect detector guesses an undeclared field delimiter by
// speculatively tokenizing a sample with each candidate and scoring how
// consistently the candidate partitions the sample into uniform rows.
// It is a best-effort heuristic run once, up front, on a buffered sample;
// it never sits on the parsing hot path.

const detectorSampleLimit = 64 * 1024

// detectorEpsilon keeps single-field rows from zeroing a candidate's score
// outright.
const detectorEpsilon = 0.01

// Detector infers the field delimiter of a sample. Only single-scalar
// candidates are supported; the escaping scalar is fixed to '"' and the row
// delimiter to '\n' during speculation.
type Detector struct {
	candidates []rune
}

// DefaultDelimiterCandidates are tried in order; the order breaks ties.
var DefaultDelimiterCandidates = []rune{',', ';', '\t', '|'}

// NewDetector returns a Detector over the given candidates, defaulting to
// DefaultDelimiterCandidates when none are given.
func NewDetector(candidates []rune) *Detector {
	if len(candidates) == 0 {
		candidates = DefaultDelimiterCandidates
	}
	return &Detector{candidates: candidates}
}

// Detect scores every candidate against the sample and returns the winner.
// Ties go to the earliest-registered candidate.
func (d *Detector) Detect(sample []rune) (rune, error) {
	if len(sample) == 0 {
		return 0, ErrUndetectedDialect
	}
	best := d.candidates[0]
	bestScore := -1.0
	for _, cand := range d.candidates {
		score := d.score(sample, cand)
		if score > bestScore {
			best = cand
			bestScore = score
		}
	}
	if bestScore <= 0 {
		return 0, ErrUndetectedDialect
	}
	return best, nil
}

// rowPattern abstracts one sample row down to its field count.
type rowPattern int

// score tokenizes the sample with cand as the field delimiter and rates the
// resulting row patterns: many rows sharing the same, wider pattern score
// high. The score is the average over pattern groups of
// count * max(epsilon, (fields-1)/fields).
func (d *Detector) score(sample []rune, cand rune) float64 {
	patterns := tokenizeSample(sample, cand)
	if len(patterns) == 0 {
		return 0
	}
	groups := make(map[rowPattern]int)
	for _, p := range patterns {
		groups[p]++
	}
	var total float64
	for pattern, count := range groups {
		fields := float64(pattern)
		weight := (fields - 1) / fields
		if weight < detectorEpsilon {
			weight = detectorEpsilon
		}
		total += float64(count) * weight
	}
	return total / float64(len(groups))
}

// tokenizeSample splits the sample into per-row field counts, honoring '"'
// escaping so embedded candidates and newlines do not split fields.
// Malformed escaping simply ends the speculative scan early; the detector
// judges whatever it managed to read.
func tokenizeSample(sample []rune, cand rune) []rowPattern {
	var patterns []rowPattern
	fields := 1
	inEscape := false
	sawScalar := false

	for i := 0; i < len(sample); i++ {
		s := sample[i]
		if inEscape {
			if s != '"' {
				continue
			}
			if i+1 < len(sample) && sample[i+1] == '"' {
				i++ // doubled quote stays inside the field
				continue
			}
			inEscape = false
			continue
		}
		switch s {
		case '"':
			inEscape = true
			sawScalar = true
		case cand:
			fields++
			sawScalar = true
		case '\n':
			patterns = append(patterns, rowPattern(fields))
			fields = 1
			sawScalar = false
		default:
			sawScalar = true
		}
	}
	if sawScalar || fields > 1 {
		patterns = append(patterns, rowPattern(fields))
	}
	return patterns
}
