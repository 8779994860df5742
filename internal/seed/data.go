package seed

import "staysync/internal/domain"

func unsplash(photo string) *domain.Image {
	return &domain.Image{
		URL:      "https://images.unsplash.com/" + photo + "?auto=format&fit=crop&w=800&q=60",
		Filename: "listingimage",
	}
}

// Listings returns the example catalogue. Each call builds fresh values.
func Listings() []*domain.Listing {
	return []*domain.Listing{
		{
			Title:       "Cozy Beachfront Cottage",
			Description: "Escape to this charming beachfront cottage for a relaxing getaway. Enjoy stunning ocean views and easy access to the beach.",
			Image:       unsplash("photo-1552733407-5d5c46c3bb3b"),
			Price:       1500,
			Location:    "Malibu",
			Country:     "United States",
		},
		{
			Title:       "Modern Loft in Downtown",
			Description: "Stay in the heart of the city in this stylish loft apartment. Perfect for urban explorers!",
			Image:       unsplash("photo-1501785888041-af3ef285b470"),
			Price:       1200,
			Location:    "New York City",
			Country:     "United States",
		},
		{
			Title:       "Mountain Retreat",
			Description: "Unplug and unwind in this peaceful mountain cabin. Surrounded by nature, it's a perfect place to recharge.",
			Image:       unsplash("photo-1571896349842-33c89424de2d"),
			Price:       1000,
			Location:    "Aspen",
			Country:     "United States",
		},
		{
			Title:       "Historic Villa in Tuscany",
			Description: "Experience the charm of Tuscany in this beautifully restored villa. Explore the rolling hills and vineyards.",
			Image:       unsplash("photo-1566073771259-6a8506099945"),
			Price:       2500,
			Location:    "Florence",
			Country:     "Italy",
		},
		{
			Title:       "Secluded Treehouse Getaway",
			Description: "Live among the treetops in this unique treehouse retreat. A true nature lover's paradise.",
			Image:       unsplash("photo-1488462237308-ecaa28b729d7"),
			Price:       800,
			Location:    "Portland",
			Country:     "United States",
		},
		{
			Title:       "Beachfront Paradise",
			Description: "Step out of your door onto the sandy beach. This beachfront condo offers the ultimate relaxation.",
			Image:       unsplash("photo-1571003123894-1f0594d2b5d9"),
			Price:       2000,
			Location:    "Cancun",
			Country:     "Mexico",
		},
		{
			Title:       "Rustic Cabin by the Lake",
			Description: "Spend your days fishing and kayaking on the serene lake. This cozy cabin is perfect for outdoor enthusiasts.",
			Image:       unsplash("photo-1470770841072-f978cf4d019e"),
			Price:       900,
			Location:    "Lake Tahoe",
			Country:     "United States",
		},
		{
			Title:       "Luxury Penthouse with City Views",
			Description: "Indulge in luxury living with panoramic city views from this stunning penthouse apartment.",
			Image:       unsplash("photo-1622396481328-9b1b78cdd9fd"),
			Price:       3500,
			Location:    "Los Angeles",
			Country:     "United States",
		},
		{
			Title:       "Ski-In/Ski-Out Chalet",
			Description: "Hit the slopes right from your doorstep in this ski-in/ski-out chalet in the Swiss Alps.",
			Image:       unsplash("photo-1502784444187-359ac186c5bb"),
			Price:       3000,
			Location:    "Verbier",
			Country:     "Switzerland",
		},
		{
			Title:       "Safari Lodge in the Serengeti",
			Description: "Experience the thrill of the wild in a comfortable safari lodge. Witness the Great Migration up close.",
			Image:       unsplash("photo-1493246507139-91e8fad9978e"),
			Price:       4000,
			Location:    "Serengeti National Park",
			Country:     "Tanzania",
		},
		{
			Title:       "Historic Canal House",
			Description: "Stay in a piece of history in this beautifully preserved canal house in Amsterdam's iconic district.",
			Image:       unsplash("photo-1504280390367-361c6d9f38f4"),
			Price:       1800,
			Location:    "Amsterdam",
			Country:     "Netherlands",
		},
		{
			Title:       "Private Island Retreat",
			Description: "Have an entire island to yourself for a truly exclusive and unforgettable vacation experience.",
			Image:       unsplash("photo-1618140052121-39fc6db33972"),
			Price:       10000,
			Location:    "Fiji",
			Country:     "Fiji",
		},
		{
			Title:       "Charming Cottage in the Cotswolds",
			Description: "Escape to the picturesque Cotswolds in this quaint and charming cottage with a thatched roof.",
			Image:       unsplash("photo-1602088113235-229c19758e9f"),
			Price:       1200,
			Location:    "Cotswolds",
			Country:     "United Kingdom",
		},
		{
			Title:       "Desert Oasis in Dubai",
			Description: "Experience luxury in the middle of the desert in this opulent oasis in Dubai with a private pool.",
			Image:       unsplash("photo-1518684079-3c830dcef090"),
			Price:       5000,
			Location:    "Dubai",
			Country:     "United Arab Emirates",
		},
		{
			Title:       "Beachfront Bungalow in Bali",
			Description: "Relax on the sandy shores of Bali in this beautiful beachfront bungalow with a private pool.",
			Image:       unsplash("photo-1602391833977-358a52198938"),
			Price:       1800,
			Location:    "Bali",
			Country:     "Indonesia",
		},
	}
}
