package domain

// ServiceCategory groups catalog services.
type ServiceCategory struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IconURL      string `json:"iconUrl,omitempty"`
	IsActive     bool   `json:"isActive"`
	ServiceCount int    `json:"serviceCount"`
}

// ServiceSummary is the list view of an orderable service.
type ServiceSummary struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	CategoryID            string  `json:"categoryId,omitempty"`
	CategoryName          string  `json:"categoryName"`
	ServiceType           string  `json:"serviceType"`
	BaseBandwidthMbps     int     `json:"baseBandwidthMbps"`
	MaxBandwidthMbps      int     `json:"maxBandwidthMbps"`
	MinBandwidthMbps      int     `json:"minBandwidthMbps"`
	BasePriceMonthly      float64 `json:"basePriceMonthly"`
	MonthlyPrice          float64 `json:"monthlyPrice,omitempty"`
	PricePerMbps          float64 `json:"pricePerMbps,omitempty"`
	SetupFee              float64 `json:"setupFee"`
	ContractTermMonths    int     `json:"contractTermMonths"`
	IsBandwidthAdjustable bool    `json:"isBandwidthAdjustable"`
	IsAvailable           bool    `json:"isAvailable"`
	ProvisioningTimeHours int     `json:"provisioningTimeHours"`
}

// MonthlyPriceOrBase returns the legacy monthlyPrice when basePriceMonthly is unset.
func (s ServiceSummary) MonthlyPriceOrBase() float64 {
	if s.BasePriceMonthly == 0 {
		return s.MonthlyPrice
	}
	return s.BasePriceMonthly
}

// ServiceDetail adds the full technical description to a summary.
type ServiceDetail struct {
	ServiceSummary
	Features            map[string]any `json:"features,omitempty"`
	TechnicalSpecs      map[string]any `json:"technicalSpecs,omitempty"`
	SupportedBandwidths []int          `json:"supportedBandwidths,omitempty"`
	AvailableLocations  []string       `json:"availableLocations,omitempty"`
}

// ServiceSearch holds the optional catalog filters. Nil pointers mean "no filter".
type ServiceSearch struct {
	Name                string   `query:"name"`
	CategoryID          string   `query:"categoryId"`
	ServiceType         string   `query:"serviceType"`
	MinPrice            *float64 `query:"minPrice"`
	MaxPrice            *float64 `query:"maxPrice"`
	MinBandwidth        *int     `query:"minBandwidth"`
	MaxBandwidth        *int     `query:"maxBandwidth"`
	BandwidthAdjustable *bool    `query:"bandwidthAdjustable"`
	Page                int      `query:"page"`
	Limit               int      `query:"limit"`
}
