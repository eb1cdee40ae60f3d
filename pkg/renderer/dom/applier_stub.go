//go:build !js || !wasm
// +build !js !wasm

package dom

import (
	"errors"

	"github.com/recera/circles/pkg/vango/vdom"
)

// DOMApplier applies live patch frames to the browser DOM (stub for non-WASM builds)
type DOMApplier struct{}

// NewDOMApplier creates a new DOM applier (stub)
func NewDOMApplier() *DOMApplier {
	return &DOMApplier{}
}

// Mount is a no-op outside the browser
func (a *DOMApplier) Mount(markup string) {}

// Apply applies patches to the DOM (stub)
func (a *DOMApplier) Apply(patches []vdom.Patch) error {
	return errors.New("DOM applier is only available in WASM builds")
}
