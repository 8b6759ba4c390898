package rabbitmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeBookingEvent(t *testing.T) {
	t.Run("envelope_payload", func(t *testing.T) {
		body := []byte(`{
			"version": 1,
			"producer": "booking-service",
			"message_id": "m1",
			"occurred_at": "2026-03-01T12:00:00Z",
			"payload": {"booking_id": "bk_1", "experience_id": "exp_1", "tickets": 3}
		}`)

		evt, err := decodeBookingEvent(body)
		assert.NoError(t, err)
		assert.Equal(t, "exp_1", evt.ExperienceID)
		assert.Equal(t, 3, evt.Tickets)
	})

	t.Run("extra_fields_ignored", func(t *testing.T) {
		body := []byte(`{
			"version": 2,
			"payload": {"experience_id": "exp_1", "tickets": 1, "promo_code": "FALL10"}
		}`)

		evt, err := decodeBookingEvent(body)
		assert.NoError(t, err)
		assert.Equal(t, "exp_1", evt.ExperienceID)
	})

	t.Run("missing_experience_id_is_poison", func(t *testing.T) {
		_, err := decodeBookingEvent([]byte(`{"payload": {"tickets": 2}}`))
		assert.Error(t, err)
	})

	t.Run("invalid_json_is_poison", func(t *testing.T) {
		_, err := decodeBookingEvent([]byte(`{not json`))
		assert.Error(t, err)
	})
}
