package protocol

import (
	"errors"

	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// MaxNodeDepth limits the nesting depth of decoded trees. Replace and
// AppendChildren payloads count from their own root.
const MaxNodeDepth = 256

// ErrMaxDepthExceeded is returned when a tree is nested deeper than allowed.
var ErrMaxDepthExceeded = errors.New("protocol: maximum nesting depth exceeded")

// checkDepth is a convenience function for one-time depth checks.
func checkDepth(current, max int) error {
	if current > max {
		return ErrMaxDepthExceeded
	}
	return nil
}

// CheckTree reports whether n can be sent in a Mount or Replace payload
// without a peer refusing it for nesting depth.
func CheckTree(n *vdom.Node) error {
	return encodeError("tree", checkTreeDepth(n, 0))
}

// CheckPatches runs CheckTree over every subtree a batch carries.
func CheckPatches(patches []vdom.Patch) error {
	for _, p := range patches {
		if err := CheckTree(p.Node); err != nil {
			return err
		}
		for _, c := range p.Children {
			if err := CheckTree(c); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkTreeDepth(n *vdom.Node, depth int) error {
	if n == nil {
		return nil
	}
	if err := checkDepth(depth, MaxNodeDepth); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := checkTreeDepth(c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// decodeError classifies a low-level decoding failure under a registered
// code. The original error stays reachable through errors.Is.
func decodeError(what string, err error) error {
	return classify("decoding "+what, err)
}

// encodeError is decodeError for data a peer would refuse to decode.
func encodeError(what string, err error) error {
	return classify("encoding "+what, err)
}

func classify(detail string, err error) error {
	if err == nil {
		return nil
	}
	code := vterrors.CodeMalformedFrame
	switch {
	case errors.Is(err, ErrUnknownPatchKind):
		code = vterrors.CodeUnknownPatchKind
	case errors.Is(err, ErrMaxDepthExceeded):
		code = vterrors.CodeDepthExceeded
	}
	return vterrors.New(code).WithDetail(detail).Wrap(err)
}
