package ingest

import "encoding/json"

// Value is a loosely typed scalar from the source literal. The research
// objects mix strings and bare numbers freely ("0.45" vs 0.45), so Value
// accepts any JSON scalar and renders it the way it was written. A JSON null
// or an absent field leaves the Value unset.
type Value struct {
	raw string
	ok  bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Value) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*v = Value{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{raw: s, ok: true}
		return nil
	}
	*v = Value{raw: string(data), ok: true}
	return nil
}

// String returns the rendered scalar, or "" when unset.
func (v Value) String() string { return v.raw }

// IsSet reports whether the field was present and non-null.
func (v Value) IsSet() bool { return v.ok }

// Empty reports whether the value is unset or renders to "".
func (v Value) Empty() bool { return !v.ok || v.raw == "" }

// Or returns the rendered scalar, or def when the value is empty.
func (v Value) Or(def string) string {
	if v.Empty() {
		return def
	}
	return v.raw
}

// StockRecord is one ticker's normalized research object. Optional groups are
// pointers so the chunker can distinguish "absent" from "present but sparse".
type StockRecord struct {
	Company                Value           `json:"company"`
	Sector                 Value           `json:"sector"`
	HeroDescription        Value           `json:"heroDescription"`
	HeroCompanyDescription Value           `json:"heroCompanyDescription"`
	HeroMetrics            []Metric        `json:"heroMetrics"`
	Identity               Identity        `json:"identity"`
	Skew                   *Skew           `json:"skew"`
	Verdict                *Verdict        `json:"verdict"`
	Hypotheses             []Hypothesis    `json:"hypotheses"`
	Narrative              *Narrative      `json:"narrative"`
	Evidence               Evidence        `json:"evidence"`
	Discriminators         *Discriminators `json:"discriminators"`
	Tripwires              Tripwires       `json:"tripwires"`
	Gaps                   Gaps            `json:"gaps"`
	TechnicalAnalysis      *Technical      `json:"technicalAnalysis"`
}

// Metric is one headline metric (label/value pair).
type Metric struct {
	Label Value `json:"label"`
	Value Value `json:"value"`
}

// Identity holds the company overview text and the financial identity table.
// Each table row is a list of [label, value] cells.
type Identity struct {
	Overview Value       `json:"overview"`
	Rows     [][][]Value `json:"rows"`
}

// Skew is the risk skew call.
type Skew struct {
	Direction Value `json:"direction"`
	Rationale Value `json:"rationale"`
}

// Verdict is the headline verdict with per-dimension scores.
type Verdict struct {
	Text   Value          `json:"text"`
	Scores []VerdictScore `json:"scores"`
}

// VerdictScore is one scored verdict dimension.
type VerdictScore struct {
	Label   Value `json:"label"`
	Score   Value `json:"score"`
	DirText Value `json:"dirText"`
}

// Hypothesis is one tiered research hypothesis.
type Hypothesis struct {
	Title         Value   `json:"title"`
	Direction     Value   `json:"direction"`
	Score         Value   `json:"score"`
	StatusText    Value   `json:"statusText"`
	Description   Value   `json:"description"`
	Requires      []Value `json:"requires"`
	Supporting    []Value `json:"supporting"`
	Contradicting []Value `json:"contradicting"`
	Tier          Value   `json:"tier"`
}

// Narrative groups the market narrative sub-fields.
type Narrative struct {
	TheNarrative       Value             `json:"theNarrative"`
	PriceImplication   *PriceImplication `json:"priceImplication"`
	EvidenceCheck      Value             `json:"evidenceCheck"`
	NarrativeStability Value             `json:"narrativeStability"`
}

// PriceImplication is the narrative's price read.
type PriceImplication struct {
	Label   Value `json:"label"`
	Content Value `json:"content"`
}

// Evidence holds the evidence cards and the tier alignment summary.
type Evidence struct {
	Cards            []EvidenceCard    `json:"cards"`
	AlignmentSummary *AlignmentSummary `json:"alignmentSummary"`
}

// EvidenceCard is one numbered evidence card, optionally carrying a tabular
// appendix (leadership, ownership).
type EvidenceCard struct {
	Number         Value      `json:"number"`
	Title          Value      `json:"title"`
	EpistemicLabel Value      `json:"epistemicLabel"`
	Finding        Value      `json:"finding"`
	Tension        Value      `json:"tension"`
	Source         Value      `json:"source"`
	Tags           []CardTag  `json:"tags"`
	Table          *CardTable `json:"table"`
}

// CardTag is a free-text evidence card tag.
type CardTag struct {
	Text Value `json:"text"`
}

// CardTable is an evidence card's tabular appendix.
type CardTable struct {
	Headers []Value   `json:"headers"`
	Rows    [][]Value `json:"rows"`
}

// AlignmentSummary reports per-tier evidence support.
type AlignmentSummary struct {
	Summary *TierSummary `json:"summary"`
}

// TierSummary is the per-tier support breakdown.
type TierSummary struct {
	T1 Value `json:"t1"`
	T2 Value `json:"t2"`
	T3 Value `json:"t3"`
	T4 Value `json:"t4"`
}

// Discriminators holds the evidence rows that separate hypotheses, plus the
// evidence that does not.
type Discriminators struct {
	Rows              []DiscriminatorRow `json:"rows"`
	NonDiscriminating Value              `json:"nonDiscriminating"`
}

// DiscriminatorRow is one discriminating evidence row.
type DiscriminatorRow struct {
	Diagnosticity        Value `json:"diagnosticity"`
	Evidence             Value `json:"evidence"`
	DiscriminatesBetween Value `json:"discriminatesBetween"`
	CurrentReading       Value `json:"currentReading"`
}

// Tripwires holds the tripwire cards.
type Tripwires struct {
	Cards []TripwireCard `json:"cards"`
}

// TripwireCard is one dated tripwire with if/then conditions.
type TripwireCard struct {
	Name       Value               `json:"name"`
	Date       Value               `json:"date"`
	Conditions []TripwireCondition `json:"conditions"`
}

// TripwireCondition is one if/then pair.
type TripwireCondition struct {
	If   Value `json:"if"`
	Then Value `json:"then"`
}

// Gaps lists what the research could not assess.
type Gaps struct {
	CouldntAssess []Value `json:"couldntAssess"`
}

// Technical is the technical analysis block.
type Technical struct {
	Date           Value           `json:"date"`
	Regime         Value           `json:"regime"`
	Clarity        Value           `json:"clarity"`
	Price          *PriceInfo      `json:"price"`
	MovingAverages *MovingAverages `json:"movingAverages"`
	Volatility     *Volatility     `json:"volatility"`
}

// PriceInfo is the current price reading.
type PriceInfo struct {
	Currency Value `json:"currency"`
	Current  Value `json:"current"`
}

// MovingAverages groups the MA readings and the latest crossover.
type MovingAverages struct {
	MA50      *MAValue   `json:"ma50"`
	MA200     *MAValue   `json:"ma200"`
	Crossover *Crossover `json:"crossover"`
}

// MAValue is one moving average reading.
type MAValue struct {
	Value Value `json:"value"`
}

// Crossover is a moving average crossover event.
type Crossover struct {
	Type Value `json:"type"`
	Date Value `json:"date"`
}

// Volatility is the annualised volatility reading.
type Volatility struct {
	Annualised Value `json:"annualised"`
}

// FreshnessRecord is one ticker's entry in the FRESHNESS_DATA block.
type FreshnessRecord struct {
	ReviewDate          Value `json:"reviewDate"`
	DaysSinceReview     Value `json:"daysSinceReview"`
	PriceAtReview       Value `json:"priceAtReview"`
	PricePctChange      Value `json:"pricePctChange"`
	NearestCatalyst     Value `json:"nearestCatalyst"`
	NearestCatalystDays Value `json:"nearestCatalystDays"`
	Status              Value `json:"status"`
}

// ReferenceRecord is one ticker's entry in the REFERENCE_DATA block. Fields
// are open-ended; the chunker picks from a fixed label dictionary.
type ReferenceRecord map[string]Value

func decodeStock(data []byte) (*StockRecord, error) {
	var rec StockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
