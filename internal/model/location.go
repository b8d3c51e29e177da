package model

// StateOption is the lightweight state shape served to selection dropdowns
type StateOption struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CountryID int64  `json:"country_id"`
}

// CityOption is the lightweight city shape served to selection dropdowns
type CityOption struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	StateID int64  `json:"state_id"`
}
