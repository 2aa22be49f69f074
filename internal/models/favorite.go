package models

// Favorite associates the current user (or the anonymous local session) with
// a vehicle. FavoriteID is the server-side association id in live mode and
// empty otherwise. A favorites list never holds two entries for the same
// vehicle id.
type Favorite struct {
	Vehicle
	FavoriteID string `json:"favoriteId,omitempty"`
	Note       string `json:"note,omitempty"`
}
