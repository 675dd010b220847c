package catalog

import (
	"bytes"
	"fmt"

	"inventory-catalog/internal/model"
)

const (
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeJPEG = "image/jpeg"

	PlaceholderImageURL = "/images/placeholder-product.png"
)

var (
	pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	gif87a       = []byte("GIF87a")
	gif89a       = []byte("GIF89a")
)

// SniffImageType classifies a payload by its magic prefix, defaulting to JPEG.
func SniffImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, pngSignature):
		return ContentTypePNG
	case bytes.HasPrefix(data, gif87a), bytes.HasPrefix(data, gif89a):
		return ContentTypeGIF
	default:
		return ContentTypeJPEG
	}
}

// ImageURL is the path the image endpoint serves a stored image under.
func ImageURL(id uint) string {
	return fmt.Sprintf("/Image/GetImage/%d", id)
}

// SupplierImageURL is the path the supplier profile image is served under.
func SupplierImageURL(supplierID uint) string {
	return fmt.Sprintf("/Supplier/GetSupplierImage/%d", supplierID)
}

// ProductImageURL resolves a product's thumbnail: the primary image, else the lowest-ordered image
// that has an order number, else the placeholder.
func ProductImageURL(p *model.Product) string {
	if p.PrimaryImageID != nil {
		return ImageURL(*p.PrimaryImageID)
	}
	var ordered []model.ImageData
	for _, img := range p.Images {
		if img.Order != nil {
			ordered = append(ordered, img)
		}
	}
	if id := SelectPrimaryImage(ordered); id != nil {
		return ImageURL(*id)
	}
	return PlaceholderImageURL
}
