package models

// NewsItem is one announcement scraped from the external notice board.
type NewsItem struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Date  string `json:"date"`
}
