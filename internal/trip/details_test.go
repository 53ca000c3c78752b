package trip_test

import (
	"encoding/json"
	"testing"

	"github.com/wanderplan/wanderplan/internal/trip"
)

func TestDecodeDetails_KnownTypes(t *testing.T) {
	tests := []struct {
		name     string
		itemType trip.ItemType
		payload  string
		check    func(t *testing.T, details trip.ItemDetails)
	}{
		{
			name:     "flight",
			itemType: trip.TypeFlight,
			payload:  `{"from":"Amsterdam","fromIata":"AMS","to":"Lisbon","toIata":"LIS","airline":"TAP","pnr":"X1Y2Z3"}`,
			check: func(t *testing.T, details trip.ItemDetails) {
				d, ok := details.(trip.FlightDetails)
				if !ok {
					t.Fatalf("expected FlightDetails, got %T", details)
				}
				if d.FromIATA != "AMS" || d.PNR != "X1Y2Z3" {
					t.Errorf("unexpected flight details: %+v", d)
				}
			},
		},
		{
			name:     "hotel",
			itemType: trip.TypeHotel,
			payload:  `{"hotelName":"Memmo Alfama","address":"Tv. Merceeiras 27","checkInDate":"2026-05-04","checkIn":"15:00","checkOutDate":"2026-05-09","checkOut":"11:00"}`,
			check: func(t *testing.T, details trip.ItemDetails) {
				d, ok := details.(trip.HotelDetails)
				if !ok {
					t.Fatalf("expected HotelDetails, got %T", details)
				}
				if d.HotelName != "Memmo Alfama" || d.CheckOut != "11:00" {
					t.Errorf("unexpected hotel details: %+v", d)
				}
			},
		},
		{
			name:     "transport",
			itemType: trip.TypeTransport,
			payload:  `{"mode":"train","from":"Lisbon","to":"Sintra"}`,
			check: func(t *testing.T, details trip.ItemDetails) {
				d, ok := details.(trip.TransportDetails)
				if !ok {
					t.Fatalf("expected TransportDetails, got %T", details)
				}
				if d.Mode != "train" {
					t.Errorf("unexpected transport details: %+v", d)
				}
			},
		},
		{
			name:     "restaurant",
			itemType: trip.TypeRestaurant,
			payload:  `{"restaurantName":"Cervejaria Ramiro","cuisine":"Seafood","location":"Intendente"}`,
			check: func(t *testing.T, details trip.ItemDetails) {
				d, ok := details.(trip.RestaurantDetails)
				if !ok {
					t.Fatalf("expected RestaurantDetails, got %T", details)
				}
				if d.Cuisine != "Seafood" {
					t.Errorf("unexpected restaurant details: %+v", d)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			details, err := trip.DecodeDetails(tt.itemType, []byte(tt.payload))
			if err != nil {
				t.Fatalf("failed to decode details: %v", err)
			}
			tt.check(t, details)
		})
	}
}

func TestDecodeDetails_EmptyPayload(t *testing.T) {
	details, err := trip.DecodeDetails(trip.TypeActivity, nil)
	if err != nil {
		t.Fatalf("failed to decode empty payload: %v", err)
	}
	if _, ok := details.(trip.ActivityDetails); !ok {
		t.Fatalf("expected ActivityDetails, got %T", details)
	}
}

func TestDecodeDetails_UnknownTypeKeepsRawPayload(t *testing.T) {
	payload := `{"anything":"goes","nested":{"n":1}}`

	details, err := trip.DecodeDetails("mystery", []byte(payload))
	if err != nil {
		t.Fatalf("failed to decode unknown type: %v", err)
	}

	raw, ok := details.(trip.RawDetails)
	if !ok {
		t.Fatalf("expected RawDetails, got %T", details)
	}

	out, err := trip.EncodeDetails(raw)
	if err != nil {
		t.Fatalf("failed to re-encode raw details: %v", err)
	}
	if string(out) != payload {
		t.Errorf("expected payload preserved, got %s", out)
	}
}

func TestDecodeDetails_MalformedPayload(t *testing.T) {
	if _, err := trip.DecodeDetails(trip.TypeFlight, []byte(`{"from":`)); err == nil {
		t.Error("expected error for malformed payload")
	}
}

func TestEncodeDetails_NilEncodesEmptyObject(t *testing.T) {
	out, err := trip.EncodeDetails(nil)
	if err != nil {
		t.Fatalf("failed to encode nil details: %v", err)
	}
	if string(out) != "{}" {
		t.Errorf("expected empty object, got %s", out)
	}

	var m map[string]any
	if err := json.Unmarshal(out, &m); err != nil {
		t.Errorf("expected valid JSON, got %v", err)
	}
}
