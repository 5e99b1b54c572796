package forms

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/staybnb/webserver/internal/uploads"
)

// Listing is the add-property form as submitted.
type Listing struct {
	Title         string `form:"title" validate:"required,max=100"`
	Description   string `form:"description" validate:"required"`
	Location      string `form:"location" validate:"required,max=100"`
	PricePerNight string `form:"price_per_night" validate:"required"`

	// ImageFilename is the client-side name of the uploaded file, "" when no
	// file was attached.
	ImageFilename string `form:"image" validate:"-"`
}

// ValidListing is a Listing whose price has been parsed.
type ValidListing struct {
	Title         string
	Description   string
	Location      string
	PricePerNight float64
	HasImage      bool
}

func ListingFromValues(values url.Values, imageFilename string) Listing {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }
	return Listing{
		Title:         get("title"),
		Description:   get("description"),
		Location:      get("location"),
		PricePerNight: get("price_per_night"),
		ImageFilename: imageFilename,
	}
}

// ValidateListing checks the text fields, parses the price and checks the
// image extension against uploads.AllowedExtensions.
func ValidateListing(in Listing) (ValidListing, FieldErrors) {
	errs := check(in)

	var price float64
	if in.PricePerNight != "" {
		parsed, err := strconv.ParseFloat(in.PricePerNight, 64)
		switch {
		case err != nil, math.IsNaN(parsed), math.IsInf(parsed, 0):
			errs.Add("price_per_night", "Not a valid float value.")
		case parsed < 0:
			errs.Add("price_per_night", "Price per night cannot be negative.")
		default:
			price = parsed
		}
	}

	if in.ImageFilename != "" {
		name := uploads.Sanitize(in.ImageFilename)
		switch {
		case name == "":
			errs.Add("image", "Invalid file name.")
		case len(name) > uploads.MaxFilenameLength:
			errs.Add("image", "File name is too long.")
		case !uploads.Allowed(name):
			errs.Add("image", "Images only!")
		}
	}

	if !errs.OK() {
		return ValidListing{}, errs
	}
	return ValidListing{
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		PricePerNight: price,
		HasImage:      in.ImageFilename != "",
	}, nil
}
