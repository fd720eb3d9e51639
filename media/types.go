// media/types.go
package media

type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeLabel AssetType = "label"
)

// subdirectory names inside a dataset directory
const (
	ImagesSubDir = "images"
	LabelsSubDir = "labels"
	ManifestFile = "data.yaml"
	LabelFileExt = ".txt"
)

// subDirFor maps an asset type to its directory inside a dataset
func subDirFor(assetType AssetType) string {
	switch assetType {
	case AssetTypeImage:
		return ImagesSubDir
	case AssetTypeLabel:
		return LabelsSubDir
	default:
		return string(assetType)
	}
}
