package postgres

const insertExperienceSQL = `
INSERT INTO experiences (
  id, host_id, title, description, city, cuisine,
  start_time, duration_minutes, price, capacity, spots_left,
  cancellation_policy, status, published_at, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
`

const experienceColumns = `id, host_id, title, description, city, cuisine,
       start_time, duration_minutes, price, capacity, spots_left,
       cancellation_policy, status, published_at, created_at, updated_at`

const getExperienceSQL = `
SELECT ` + experienceColumns + `
FROM experiences WHERE id = $1
`

const getExperienceForUpdateSQL = getExperienceSQL + `
FOR UPDATE
`

const updateExperienceSQL = `
UPDATE experiences SET
  title=$2, description=$3, city=$4, cuisine=$5,
  start_time=$6, duration_minutes=$7, price=$8, capacity=$9, spots_left=$10,
  cancellation_policy=$11, status=$12, published_at=$13, updated_at=$14
WHERE id=$1
`

// Spots adjustments clamp in SQL: a late or duplicated event can never drive
// the counter negative, and a restore after a zero-clamped decrement can
// never push it past capacity.
const decrementSpotsSQL = `
UPDATE experiences
SET spots_left = GREATEST(spots_left - $2, 0),
    updated_at = NOW()
WHERE id = $1
`

const incrementSpotsSQL = `
UPDATE experiences
SET spots_left = LEAST(spots_left + $2, capacity),
    updated_at = NOW()
WHERE id = $1
`

const sumConfirmedTicketsSQL = `
SELECT COALESCE(SUM(tickets), 0)
FROM bookings
WHERE experience_id = $1 AND status = 'confirmed'
`

const bookingColumns = `id, experience_id, guest_id, tickets, total_amount,
       status, cancelled_at, created_at`

const getBookingSQL = `
SELECT ` + bookingColumns + `
FROM bookings WHERE id = $1
`

const getBookingForUpdateSQL = getBookingSQL + `
FOR UPDATE
`

const updateBookingSQL = `
UPDATE bookings SET
  status=$2, cancelled_at=$3
WHERE id=$1
`

const listBookingsByExperienceSQL = `
SELECT ` + bookingColumns + `
FROM bookings
WHERE experience_id = $1
ORDER BY created_at ASC
`

const listBookingsByGuestSQL = `
SELECT b.id, b.experience_id, b.guest_id, b.tickets, b.total_amount,
       b.status, b.cancelled_at, b.created_at,
       e.title, e.city, e.start_time, e.price
FROM bookings b
JOIN experiences e ON e.id = b.experience_id
WHERE b.guest_id = $1
ORDER BY e.start_time DESC
`

const insertOutboxSQL = `
INSERT INTO outbox (
  message_id, routing_key, body, created_at, status, next_retry_at
) VALUES ($1, $2, $3::jsonb, $4, 'pending', $4)
`
