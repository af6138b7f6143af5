package models

type AssetSlot string

const (
	SlotLogo       AssetSlot = "logo"
	SlotImages     AssetSlot = "images"
	SlotMenuImages AssetSlot = "menuImages"
)

// AssetSlots lists the slots in the order they are processed.
var AssetSlots = []AssetSlot{SlotLogo, SlotImages, SlotMenuImages}

// Folder is the storage folder the slot's blobs are written under.
func (s AssetSlot) Folder() string {
	switch s {
	case SlotLogo:
		return "logos"
	case SlotMenuImages:
		return "menus"
	default:
		return "images"
	}
}

// AssetInput is one entry of an asset slot in a request: either a URL that is
// already stored or a newly uploaded file.
type AssetInput interface {
	isAssetInput()
}

// ExistingURL is a stored asset re-submitted unchanged.
type ExistingURL string

func (ExistingURL) isAssetInput() {}

// NewUpload is a file received with the request.
type NewUpload struct {
	Filename string
	Content  []byte
}

func (NewUpload) isAssetInput() {}

// HasNewUpload reports whether inputs carry at least one file with a filename.
func HasNewUpload(inputs []AssetInput) bool {
	for _, in := range inputs {
		if up, ok := in.(NewUpload); ok && up.Filename != "" {
			return true
		}
	}
	return false
}
