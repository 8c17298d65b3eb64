package book

import (
	"slices"
	"strings"
)

const MinPages = 1

type LoanRequestStatus string

const (
	StatusWaitingForAcceptance LoanRequestStatus = "WAITING_FOR_ACCEPTANCE"
	StatusAccepted             LoanRequestStatus = "ACCEPTED"
)

func (s LoanRequestStatus) String() string { return string(s) }

func (s LoanRequestStatus) IsValid() bool {
	return s == StatusWaitingForAcceptance || s == StatusAccepted
}

// Labels is a set of tags; duplicates collapse and values are kept sorted.
type Labels struct {
	values []string
}

func NewLabels(values []string) Labels {
	if len(values) == 0 {
		return Labels{}
	}
	set := slices.Clone(values)
	slices.Sort(set)
	return Labels{values: slices.Compact(set)}
}

func (l Labels) Values() []string { return slices.Clone(l.values) }
func (l Labels) Len() int         { return len(l.values) }

func (l Labels) Contains(label string) bool {
	_, found := slices.BinarySearch(l.values, label)
	return found
}

func (l Labels) Equal(other Labels) bool { return slices.Equal(l.values, other.values) }

func requireText(values ...string) error {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return ErrRequiredField
		}
	}
	return nil
}

func validatePages(pages int) error {
	if pages < MinPages {
		return ErrPagesOutOfRange
	}
	return nil
}
