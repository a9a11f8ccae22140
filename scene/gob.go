package scene

import "encoding/gob"

// Register concrete primitive types so scenes can be serialized with gob.
func init() {
	gob.Register(&Sphere{})
	gob.Register(&Triangle{})
	gob.Register(&Rectangle{})
}
