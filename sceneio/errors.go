package sceneio

import "fmt"

// LoadError reports a malformed scene file: dangling references, type
// mismatches, or a validation failure caught at load time (§7).
type LoadError struct {
	Kind   string
	Detail string
}

func (e LoadError) Error() string {
	return fmt.Sprintf("scene load error [%s]: %s", e.Kind, e.Detail)
}
