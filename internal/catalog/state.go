package catalog

import "slices"

// Status is the lifecycle stage of a catalog view
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
)

// State is everything a catalog view owns. It is only changed through Reduce.
type State struct {
	Status Status
	Err    error

	// Seq is the sequence number of the newest load request
	Seq    uint64
	loaded bool

	Products   []Product
	Brands     []string
	Categories []string
	Bounds     PriceRange

	Criteria FilterCriteria
	Staged   FilterCriteria
	Sort     SortKey
	Page     int
	PageSize int
}

// NewState returns an idle state using pageSize, or DefaultPageSize when it is < 1
func NewState(pageSize int) State {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return State{
		Status:   StatusIdle,
		Sort:     SortRelevance,
		Page:     1,
		PageSize: pageSize,
	}
}

// Action is a state transition understood by Reduce
type Action interface {
	isAction()
}

type (
	// LoadStarted marks a new fetch; only its result will be accepted
	LoadStarted struct{ Seq uint64 }

	LoadSucceeded struct {
		Seq        uint64
		Products   []Product
		Brands     []string
		Categories []string
	}

	LoadFailed struct {
		Seq uint64
		Err error
	}

	SetSearch      struct{ Search string }
	ToggleBrand    struct{ Brand string }
	SetBrands      struct{ Brands []string }
	ToggleCategory struct{ Category string }
	SetCategories  struct{ Categories []string }
	SetPriceRange  struct{ Range PriceRange }
	SetSort        struct{ Sort SortKey }

	// StageCriteria replaces the staged criteria without touching the visible list
	StageCriteria struct{ Criteria FilterCriteria }
	ApplyStaged   struct{}
	DiscardStaged struct{}

	// ClearFilters resets search, brands, categories and price; the sort is kept
	ClearFilters struct{}

	SetPage     struct{ Page int }
	SetPageSize struct{ Size int }
)

func (LoadStarted) isAction()    {}
func (LoadSucceeded) isAction()  {}
func (LoadFailed) isAction()     {}
func (SetSearch) isAction()      {}
func (ToggleBrand) isAction()    {}
func (SetBrands) isAction()      {}
func (ToggleCategory) isAction() {}
func (SetCategories) isAction()  {}
func (SetPriceRange) isAction()  {}
func (SetSort) isAction()        {}
func (StageCriteria) isAction()  {}
func (ApplyStaged) isAction()    {}
func (DiscardStaged) isAction()  {}
func (ClearFilters) isAction()   {}
func (SetPage) isAction()        {}
func (SetPageSize) isAction()    {}

// Reduce returns the state that results from applying a to s. It never
// mutates s or any slice reachable from it.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case LoadStarted:
		s.Status = StatusLoading
		s.Seq = a.Seq
		s.Err = nil
		return s

	case LoadSucceeded:
		if s.Status != StatusLoading || a.Seq != s.Seq {
			return s
		}
		return applyLoad(s, a)

	case LoadFailed:
		if s.Status != StatusLoading || a.Seq != s.Seq {
			return s
		}
		s.Status = StatusFailed
		s.Err = a.Err
		s.loaded = false
		s.Products, s.Brands, s.Categories = nil, nil, nil
		return s

	case SetPage:
		if !s.loaded {
			return s
		}
		s.Page = a.Page
		return s

	case SetPageSize:
		if !s.loaded || a.Size < 1 {
			return s
		}
		s.PageSize = a.Size
		s.Page = 1
		return s

	case SetSort:
		if !s.loaded {
			return s
		}
		s.Sort = a.Sort
		s.Page = 1
		return s

	case StageCriteria:
		if !s.loaded {
			return s
		}
		s.Staged = normalize(a.Criteria)
		return s

	case ApplyStaged:
		if !s.loaded {
			return s
		}
		return commit(s, s.Staged)

	case DiscardStaged:
		if !s.loaded {
			return s
		}
		s.Staged = s.Criteria.Clone()
		return s
	}

	if !s.loaded {
		return s
	}
	c := s.Criteria.Clone()
	switch a := a.(type) {
	case SetSearch:
		c.Search = a.Search
	case ToggleBrand:
		c.Brands = toggle(c.Brands, a.Brand)
	case SetBrands:
		c.Brands = slices.Clone(a.Brands)
	case ToggleCategory:
		c.Categories = toggle(c.Categories, a.Category)
	case SetCategories:
		c.Categories = slices.Clone(a.Categories)
	case SetPriceRange:
		c.Price = a.Range
	case ClearFilters:
		c = FilterCriteria{Price: s.Bounds}
	default:
		return s
	}
	return commit(s, c)
}

// commit makes c the applied criteria on the apply-immediately path
func commit(s State, c FilterCriteria) State {
	c = normalize(c)
	s.Criteria = c
	s.Staged = c.Clone()
	s.Page = 1
	return s
}

func applyLoad(s State, a LoadSucceeded) State {
	bounds := priceBounds(a.Products)

	var c FilterCriteria
	if s.loaded {
		// a refresh keeps the shopper's selections; an untouched price range follows the new bounds
		c = s.Criteria.Clone()
		if c.Price == s.Bounds {
			c.Price = bounds
		}
	} else {
		c = FilterCriteria{Price: bounds}
	}

	s.Status = StatusReady
	s.Err = nil
	s.loaded = true
	s.Products = a.Products
	s.Brands = a.Brands
	s.Categories = a.Categories
	s.Bounds = bounds
	return commit(s, c)
}

func normalize(c FilterCriteria) FilterCriteria {
	c = c.Clone()
	c.Price = NewPriceRange(c.Price.Min, c.Price.Max)
	if len(c.Brands) == 0 {
		c.Brands = nil
	}
	if len(c.Categories) == 0 {
		c.Categories = nil
	}
	return c
}

func toggle(values []string, v string) []string {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(values, i, i+1)
	}
	return append(values, v)
}
