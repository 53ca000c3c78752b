package trip

import (
	"encoding/json"
	"fmt"
)

// ItemDetails is the type-specific payload of an itinerary item, one
// concrete shape per item type. Modeling this as a closed union instead of a
// free-form map gives exhaustive type switches when rendering or validating.
type ItemDetails interface {
	isItemDetails()
}

// FlightDetails describes a flight item.
type FlightDetails struct {
	From     string `json:"from"`
	FromIATA string `json:"fromIata"`
	To       string `json:"to"`
	ToIATA   string `json:"toIata"`
	Airline  string `json:"airline"`
	PNR      string `json:"pnr"`
}

// HotelDetails describes a hotel stay.
type HotelDetails struct {
	HotelName    string `json:"hotelName"`
	Address      string `json:"address"`
	CheckInDate  string `json:"checkInDate"`
	CheckIn      string `json:"checkIn"`
	CheckOutDate string `json:"checkOutDate"`
	CheckOut     string `json:"checkOut"`
}

// TransportDetails describes a transport leg.
type TransportDetails struct {
	Mode string `json:"mode"`
	From string `json:"from"`
	To   string `json:"to"`
}

// ActivityDetails describes an activity.
type ActivityDetails struct {
	Place    string `json:"place"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// RestaurantDetails describes a meal.
type RestaurantDetails struct {
	RestaurantName string `json:"restaurantName"`
	Cuisine        string `json:"cuisine"`
	Location       string `json:"location"`
}

// OtherDetails describes anything that fits no other type.
type OtherDetails struct {
	Description string `json:"description"`
	Location    string `json:"location"`
}

// RawDetails preserves a payload whose item type is not recognized, so
// nothing is lost on a round trip through storage.
type RawDetails json.RawMessage

func (FlightDetails) isItemDetails()     {}
func (HotelDetails) isItemDetails()      {}
func (TransportDetails) isItemDetails()  {}
func (ActivityDetails) isItemDetails()   {}
func (RestaurantDetails) isItemDetails() {}
func (OtherDetails) isItemDetails()      {}
func (RawDetails) isItemDetails()        {}

// MarshalJSON emits the preserved payload unchanged.
func (d RawDetails) MarshalJSON() ([]byte, error) {
	if len(d) == 0 {
		return []byte("{}"), nil
	}
	return json.RawMessage(d).MarshalJSON()
}

// DecodeDetails decodes a raw details payload into the variant selected by
// the item type. Empty input yields the zero value of the variant. An
// unrecognized type keeps the raw payload rather than failing.
func DecodeDetails(itemType ItemType, data []byte) (ItemDetails, error) {
	if len(data) == 0 {
		data = []byte("{}")
	}

	var (
		details ItemDetails
		err     error
	)

	switch itemType {
	case TypeFlight:
		var d FlightDetails
		err = json.Unmarshal(data, &d)
		details = d
	case TypeHotel:
		var d HotelDetails
		err = json.Unmarshal(data, &d)
		details = d
	case TypeTransport:
		var d TransportDetails
		err = json.Unmarshal(data, &d)
		details = d
	case TypeActivity:
		var d ActivityDetails
		err = json.Unmarshal(data, &d)
		details = d
	case TypeRestaurant:
		var d RestaurantDetails
		err = json.Unmarshal(data, &d)
		details = d
	case TypeOther:
		var d OtherDetails
		err = json.Unmarshal(data, &d)
		details = d
	default:
		raw := make(RawDetails, len(data))
		copy(raw, data)
		return raw, nil
	}

	if err != nil {
		return nil, fmt.Errorf("decoding %s details: %w", itemType, err)
	}
	return details, nil
}

// EncodeDetails marshals a details variant for storage or transport.
// Nil details encode as an empty object.
func EncodeDetails(details ItemDetails) ([]byte, error) {
	if details == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(details)
}
