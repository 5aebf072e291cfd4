package workflow

// State is a step of the transaction pipeline.
type State int

const (
	Validating State = iota
	FetchingAttestations
	PricingFee
	CheckingBalance
	Estimating
	Submitting
	Confirming
	Reporting
	Succeeded
	Failed
)

var stateNames = [...]string{
	Validating:           "validating",
	FetchingAttestations: "fetching attestations",
	PricingFee:           "pricing fee",
	CheckingBalance:      "checking balance",
	Estimating:           "estimating gas",
	Submitting:           "submitting",
	Confirming:           "confirming",
	Reporting:            "reporting",
	Succeeded:            "succeeded",
	Failed:               "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transitions follow s.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed
}
