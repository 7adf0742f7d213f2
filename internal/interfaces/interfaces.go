// Package interfaces holds small views shared by packages that must not import each other.
package interfaces

import "iter"

// SequencedMapInterface is the untyped view of an ordered map used by the fingerprinting code.
type SequencedMapInterface interface {
	Len() int
	GetAny(key any) (any, bool)
	KeysAny() iter.Seq[any]
}
