package store

const Schema = `
CREATE TABLE IF NOT EXISTS users (
	username TEXT PRIMARY KEY,
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	creator BOOLEAN NOT NULL DEFAULT 0,
	profile_picture TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS artists (
	username TEXT PRIMARY KEY REFERENCES users(username),
	profile_picture TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS albums (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	artist_name TEXT NOT NULL REFERENCES artists(username),
	album_picture TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_albums_artist ON albums(artist_name);
CREATE INDEX IF NOT EXISTS idx_albums_created ON albums(created_at);

CREATE TABLE IF NOT EXISTS tracks (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	artist_name TEXT NOT NULL REFERENCES artists(username),
	album_id INTEGER NOT NULL REFERENCES albums(id),
	path TEXT NOT NULL DEFAULT '',
	track_image TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tracks_album ON tracks(album_id);
CREATE INDEX IF NOT EXISTS idx_tracks_artist ON tracks(artist_name);

-- One row per (track, user) is kept by the application, not by a constraint.
CREATE TABLE IF NOT EXISTS ratings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	track_id INTEGER NOT NULL REFERENCES tracks(id),
	username TEXT NOT NULL REFERENCES users(username),
	rating INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_ratings_track_user ON ratings(track_id, username);

CREATE TABLE IF NOT EXISTS play_events (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	track_id INTEGER NOT NULL REFERENCES tracks(id),
	username TEXT NOT NULL REFERENCES users(username),
	played_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_play_events_user ON play_events(username, played_at);

CREATE TABLE IF NOT EXISTS playlists (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	username TEXT NOT NULL REFERENCES users(username),
	playlist_picture TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_playlists_user ON playlists(username);

CREATE TABLE IF NOT EXISTS playlist_tracks (
	playlist_id INTEGER NOT NULL REFERENCES playlists(id),
	track_id INTEGER NOT NULL REFERENCES tracks(id),
	PRIMARY KEY (playlist_id, track_id)
);

CREATE INDEX IF NOT EXISTS idx_playlist_tracks_track ON playlist_tracks(track_id);

CREATE TABLE IF NOT EXISTS admins (
	username TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL
);
`
