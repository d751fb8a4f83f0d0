package media

// AssetType identifies a category of stored asset, mapped to a subdirectory
// under the storage root.
type AssetType string

const (
	AssetTypePicture   AssetType = "pictures"
	AssetTypeJourney   AssetType = "journey"
	AssetTypeThumbnail AssetType = "thumbnails"
)
