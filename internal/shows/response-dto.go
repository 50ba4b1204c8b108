package shows

import "time"

type ShowResponse struct {
	ID           string    `json:"id"`
	MovieTitle   string    `json:"movieTitle"`
	PosterURL    string    `json:"posterUrl,omitempty"`
	Language     string    `json:"language,omitempty"`
	VenueName    string    `json:"venueName"`
	VenueAddress string    `json:"venueAddress,omitempty"`
	StartsAt     time.Time `json:"startsAt"`
	Price        float64   `json:"price"`
}

type SeatResponse struct {
	Row         string  `json:"row"`
	SeatNumber  int     `json:"seatNumber"`
	IsAvailable bool    `json:"isAvailable"`
	Price       float64 `json:"price"`
	Status      string  `json:"status"`
}

type SeatsResponse struct {
	ShowID string         `json:"showId"`
	Seats  []SeatResponse `json:"seats"`
}

func toShowResponse(show *Show) *ShowResponse {
	return &ShowResponse{
		ID:           show.ID.String(),
		MovieTitle:   show.MovieTitle,
		PosterURL:    show.PosterURL,
		Language:     show.Language,
		VenueName:    show.VenueName,
		VenueAddress: show.VenueAddress,
		StartsAt:     show.StartsAt,
		Price:        show.Price,
	}
}
