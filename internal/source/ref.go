package source

import (
	"fmt"
	"strings"
)

// Kind classifies a source reference.
type Kind int

// Source reference kinds.
const (
	KindPath Kind = iota
	KindKaggle
	KindURL
)

func (k Kind) String() string {
	switch k {
	case KindKaggle:
		return "kaggle"
	case KindURL:
		return "url"
	default:
		return "path"
	}
}

// KagglePrefix marks a Kaggle dataset handle.
const KagglePrefix = "kaggle:"

// Ref is a parsed source reference.
type Ref struct {
	Kind Kind
	// Raw is the reference as written.
	Raw string
	// Owner and Dataset are set for KindKaggle.
	Owner   string
	Dataset string
}

// ParseRef classifies raw as a Kaggle handle (kaggle:owner/dataset), an
// http(s) URL or a local path.
func ParseRef(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case raw == "":
		return Ref{}, fmt.Errorf("%w: empty", ErrInvalidRef)
	case strings.HasPrefix(raw, KagglePrefix):
		handle := strings.TrimPrefix(raw, KagglePrefix)
		owner, dataset, ok := strings.Cut(handle, "/")
		if !ok || owner == "" || dataset == "" || strings.Contains(dataset, "/") || strings.Contains(owner, "..") || strings.Contains(dataset, "..") {
			return Ref{}, fmt.Errorf("%w: %q is not kaggle:<owner>/<dataset>", ErrInvalidRef, raw)
		}
		return Ref{Kind: KindKaggle, Raw: raw, Owner: owner, Dataset: dataset}, nil
	case strings.HasPrefix(raw, "http://"), strings.HasPrefix(raw, "https://"):
		return Ref{Kind: KindURL, Raw: raw}, nil
	default:
		return Ref{Kind: KindPath, Raw: raw}, nil
	}
}

// Handle returns owner/dataset for a Kaggle reference.
func (r Ref) Handle() string {
	return r.Owner + "/" + r.Dataset
}
