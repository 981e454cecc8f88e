package vkboot

import "fmt"

// Field widths of a packed API version.
const (
	versionVariantBits = 3
	versionMajorBits   = 7
	versionMinorBits   = 10
	versionPatchBits   = 12

	versionMajorShift   = versionMinorBits + versionPatchBits
	versionVariantShift = versionMajorShift + versionMajorBits
)

// Version is used to specify versions of components
type Version struct {
	Variant int
	Major   int
	Minor   int
	Patch   int
}

// VKVersion returns a Vulkan compatible version representation. Fields wider
// than their bit width are truncated.
func (v Version) VKVersion() uint32 {
	return uint32(v.Variant)&(1<<versionVariantBits-1)<<versionVariantShift |
		uint32(v.Major)&(1<<versionMajorBits-1)<<versionMajorShift |
		uint32(v.Minor)&(1<<versionMinorBits-1)<<versionPatchBits |
		uint32(v.Patch)&(1<<versionPatchBits-1)
}

// DecodeVersion unpacks a Vulkan version number.
func DecodeVersion(packed uint32) Version {
	return Version{
		Variant: int(packed >> versionVariantShift),
		Major:   int(packed >> versionMajorShift & (1<<versionMajorBits - 1)),
		Minor:   int(packed >> versionPatchBits & (1<<versionMinorBits - 1)),
		Patch:   int(packed & (1<<versionPatchBits - 1)),
	}
}

// String renders the version as major.minor.patch, prefixed with the variant
// only when it is non-zero.
func (v Version) String() string {
	if v.Variant == 0 {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	}
	return fmt.Sprintf("%d:%d.%d.%d", v.Variant, v.Major, v.Minor, v.Patch)
}
