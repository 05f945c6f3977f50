package database

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	role TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	phone TEXT,
	lat DOUBLE PRECISION,
	lng DOUBLE PRECISION,
	nickname TEXT,
	last_initial TEXT,
	profile_photo_url TEXT
);

CREATE TABLE IF NOT EXISTS nannies (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE REFERENCES users(id),
	approved BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS qualifications (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS nanny_tags (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS languages (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS areas (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	lat DOUBLE PRECISION NOT NULL,
	lng DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS nanny_areas (
	id BIGSERIAL PRIMARY KEY,
	nanny_id BIGINT NOT NULL REFERENCES nannies(id) ON DELETE CASCADE,
	area_id BIGINT NOT NULL REFERENCES areas(id),
	CONSTRAINT uq_nanny_area UNIQUE (nanny_id, area_id)
);

CREATE TABLE IF NOT EXISTS nanny_profiles (
	id BIGSERIAL PRIMARY KEY,
	nanny_id BIGINT NOT NULL UNIQUE REFERENCES nannies(id) ON DELETE CASCADE,
	bio TEXT,
	date_of_birth DATE,
	nationality TEXT,
	ethnicity TEXT,
	lat DOUBLE PRECISION,
	lng DOUBLE PRECISION
);

CREATE TABLE IF NOT EXISTS nanny_profile_qualifications (
	nanny_profile_id BIGINT NOT NULL REFERENCES nanny_profiles(id) ON DELETE CASCADE,
	qualification_id BIGINT NOT NULL REFERENCES qualifications(id),
	PRIMARY KEY (nanny_profile_id, qualification_id)
);

CREATE TABLE IF NOT EXISTS nanny_profile_tags (
	nanny_profile_id BIGINT NOT NULL REFERENCES nanny_profiles(id) ON DELETE CASCADE,
	tag_id BIGINT NOT NULL REFERENCES nanny_tags(id),
	PRIMARY KEY (nanny_profile_id, tag_id)
);

CREATE TABLE IF NOT EXISTS nanny_profile_languages (
	nanny_profile_id BIGINT NOT NULL REFERENCES nanny_profiles(id) ON DELETE CASCADE,
	language_id BIGINT NOT NULL REFERENCES languages(id),
	PRIMARY KEY (nanny_profile_id, language_id)
);

CREATE TABLE IF NOT EXISTS parent_profiles (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL UNIQUE REFERENCES users(id),
	area_id BIGINT REFERENCES areas(id),
	lat DOUBLE PRECISION,
	lng DOUBLE PRECISION,
	location_confirmed_at TIMESTAMPTZ,
	location_confirm_version TEXT
);

CREATE TABLE IF NOT EXISTS nanny_availability (
	id BIGSERIAL PRIMARY KEY,
	nanny_id BIGINT NOT NULL REFERENCES nannies(id) ON DELETE CASCADE,
	date DATE NOT NULL,
	start_time TIME NOT NULL,
	end_time TIME NOT NULL,
	is_available BOOLEAN NOT NULL DEFAULT TRUE,
	created_by TEXT NOT NULL DEFAULT 'admin',
	notes TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT availability_time_check CHECK (end_time > start_time)
);
CREATE INDEX IF NOT EXISTS na_nanny_date_idx ON nanny_availability (nanny_id, date);

CREATE TABLE IF NOT EXISTS bookings (
	id BIGSERIAL PRIMARY KEY,
	nanny_id BIGINT NOT NULL REFERENCES nannies(id),
	client_user_id BIGINT NOT NULL REFERENCES users(id),
	day DATE NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending',
	price_cents BIGINT NOT NULL DEFAULT 0,
	starts_at TIMESTAMPTZ,
	ends_at TIMESTAMPTZ,
	lat DOUBLE PRECISION,
	lng DOUBLE PRECISION,
	location_mode TEXT,
	location_label TEXT,
	CONSTRAINT bookings_status_check CHECK (status IN ('pending','accepted','rejected','cancelled','completed')),
	CONSTRAINT bookings_price_check CHECK (price_cents >= 0)
);
CREATE INDEX IF NOT EXISTS bookings_nanny_idx ON bookings (nanny_id);
CREATE INDEX IF NOT EXISTS bookings_client_idx ON bookings (client_user_id);

CREATE TABLE IF NOT EXISTS booking_requests (
	id BIGSERIAL PRIMARY KEY,
	parent_user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
	nanny_id BIGINT NOT NULL REFERENCES nannies(id) ON DELETE RESTRICT,
	status TEXT NOT NULL,
	hold_expires_at TIMESTAMPTZ,
	payment_status TEXT NOT NULL DEFAULT 'pending_payment',
	admin_notes TEXT,
	client_notes TEXT,
	created_by_admin_user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT booking_requests_status_check CHECK (status IN ('pending','approved','declined','cancelled','completed')),
	CONSTRAINT booking_requests_payment_status_check CHECK (payment_status IN ('pending_payment','paid','cancelled'))
);

CREATE TABLE IF NOT EXISTS booking_request_slots (
	id BIGSERIAL PRIMARY KEY,
	booking_request_id BIGINT NOT NULL REFERENCES booking_requests(id) ON DELETE CASCADE,
	starts_at TIMESTAMPTZ NOT NULL,
	ends_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT booking_request_slots_time_check CHECK (ends_at > starts_at)
);
CREATE INDEX IF NOT EXISTS brs_request_id_idx ON booking_request_slots (booking_request_id);
CREATE INDEX IF NOT EXISTS brs_starts_at_idx ON booking_request_slots (starts_at);

CREATE TABLE IF NOT EXISTS reviews (
	id BIGSERIAL PRIMARY KEY,
	booking_id BIGINT NOT NULL UNIQUE REFERENCES bookings(id),
	parent_user_id BIGINT NOT NULL REFERENCES users(id),
	nanny_id BIGINT NOT NULL REFERENCES nannies(id),
	stars INT NOT NULL,
	comment TEXT,
	approved BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	CONSTRAINT reviews_stars_check CHECK (stars >= 1 AND stars <= 5)
);
CREATE INDEX IF NOT EXISTS reviews_nanny_id_idx ON reviews (nanny_id);
CREATE INDEX IF NOT EXISTS reviews_approved_idx ON reviews (approved);
CREATE INDEX IF NOT EXISTS reviews_created_at_idx ON reviews (created_at);

CREATE TABLE IF NOT EXISTS audit_logs (
	id BIGSERIAL PRIMARY KEY,
	actor_user_id BIGINT NOT NULL REFERENCES users(id),
	action TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id BIGINT,
	details TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
