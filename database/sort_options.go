package database

import "strings"

// Orders accepted by GET /api/datasets/{dataset_id}/images?sort=. Filename
// orders compare the uploaded name; date orders compare the upload time.
const (
	SortFilenameAsc = "filename_asc"
	SortFilenameNat = "filename_nat" // img2 before img10
	SortDateDesc    = "date_desc"
	SortDateAsc     = "date_asc"
)

// DefaultSortOrder matches the order images are stored in
const DefaultSortOrder = SortDateAsc

var imageSortOrders = []string{SortDateAsc, SortDateDesc, SortFilenameAsc, SortFilenameNat}

func IsValidSortOrder(order string) bool {
	for _, o := range imageSortOrders {
		if o == order {
			return true
		}
	}
	return false
}

// SortOrderList is the comma separated list used in error messages
func SortOrderList() string {
	return strings.Join(imageSortOrders, ", ")
}
