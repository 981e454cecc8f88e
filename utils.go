package vkboot

var end = "\x00"
var endChar byte = '\x00'

// IDestructable is a resource that knows how to release itself.
type IDestructable interface {
	Destroy()
}

// destroyAny is a ledger callback for device owned wrappers. Raw handles are
// rejected: they are always registered wrapped.
func (d *Device) destroyAny(i interface{}) error {
	switch t := i.(type) {
	case IDestructable:
		t.Destroy()
	default:
		return precondition("device cannot destroy %T", i)
	}
	return nil
}

func safeString(s string) string {
	if len(s) == 0 {
		return end
	}
	if s[len(s)-1] != endChar {
		return s + end
	}
	return s
}

// safeStrings returns null terminated copies of list.
func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}
