package catalog

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidAction is wrapped by every ActionRequest decoding failure
var ErrInvalidAction = errors.New("invalid action")

var validate = validator.New(validator.WithRequiredStructEnabled())

// CriteriaRequest is the wire form of FilterCriteria used by the stage action
type CriteriaRequest struct {
	Search     string   `json:"search" validate:"max=200"`
	Brands     []string `json:"brands" validate:"dive,required"`
	Categories []string `json:"categories" validate:"dive,required"`
	Min        *float64 `json:"min" validate:"omitnil,gte=0"`
	Max        *float64 `json:"max" validate:"omitnil,gte=0"`
}

// ActionRequest is the JSON body accepted by the session actions endpoint
type ActionRequest struct {
	Type       string           `json:"type" validate:"required,oneof=set_search toggle_brand set_brands toggle_category set_categories set_price_range set_sort stage apply_staged discard_staged clear_filters set_page set_page_size"`
	Search     *string          `json:"search" validate:"omitnil,max=200"`
	Brand      string           `json:"brand"`
	Brands     []string         `json:"brands" validate:"dive,required"`
	Category   string           `json:"category"`
	Categories []string         `json:"categories" validate:"dive,required"`
	Min        *float64         `json:"min" validate:"omitnil,gte=0"`
	Max        *float64         `json:"max" validate:"omitnil,gte=0"`
	Sort       string           `json:"sort"`
	Page       int              `json:"page" validate:"gte=0"`
	PageSize   int              `json:"page_size" validate:"gte=0,lte=100"`
	Criteria   *CriteriaRequest `json:"criteria"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidAction, fmt.Sprintf(format, args...))
}

// rangeFrom fills missing bounds from the catalog bounds
func rangeFrom(min, max *float64, bounds PriceRange) PriceRange {
	r := bounds
	if min != nil {
		r.Min = *min
	}
	if max != nil {
		r.Max = *max
	}
	return NewPriceRange(r.Min, r.Max)
}

// ToAction validates the request and converts it to an Action. bounds fills
// any price bound the request leaves out.
func (req ActionRequest) ToAction(bounds PriceRange) (Action, error) {
	if err := validate.Struct(req); err != nil {
		return nil, invalid("%v", err)
	}

	switch req.Type {
	case "set_search":
		if req.Search == nil {
			return nil, invalid("set_search requires search")
		}
		return SetSearch{Search: *req.Search}, nil
	case "toggle_brand":
		if req.Brand == "" {
			return nil, invalid("toggle_brand requires brand")
		}
		return ToggleBrand{Brand: req.Brand}, nil
	case "set_brands":
		return SetBrands{Brands: req.Brands}, nil
	case "toggle_category":
		if req.Category == "" {
			return nil, invalid("toggle_category requires category")
		}
		return ToggleCategory{Category: req.Category}, nil
	case "set_categories":
		return SetCategories{Categories: req.Categories}, nil
	case "set_price_range":
		if req.Min == nil && req.Max == nil {
			return nil, invalid("set_price_range requires min or max")
		}
		return SetPriceRange{Range: rangeFrom(req.Min, req.Max, bounds)}, nil
	case "set_sort":
		key, err := ParseSortKey(req.Sort)
		if err != nil {
			return nil, invalid("%v", err)
		}
		return SetSort{Sort: key}, nil
	case "stage":
		if req.Criteria == nil {
			return nil, invalid("stage requires criteria")
		}
		if err := validate.Struct(req.Criteria); err != nil {
			return nil, invalid("%v", err)
		}
		return StageCriteria{Criteria: FilterCriteria{
			Search:     req.Criteria.Search,
			Brands:     req.Criteria.Brands,
			Categories: req.Criteria.Categories,
			Price:      rangeFrom(req.Criteria.Min, req.Criteria.Max, bounds),
		}}, nil
	case "apply_staged":
		return ApplyStaged{}, nil
	case "discard_staged":
		return DiscardStaged{}, nil
	case "clear_filters":
		return ClearFilters{}, nil
	case "set_page":
		if req.Page < 1 {
			return nil, invalid("set_page requires page >= 1")
		}
		return SetPage{Page: req.Page}, nil
	case "set_page_size":
		if req.PageSize < 1 {
			return nil, invalid("set_page_size requires page_size >= 1")
		}
		return SetPageSize{Size: req.PageSize}, nil
	}
	return nil, invalid("unknown type %q", req.Type)
}
