package store

// Schema for the SQLite backend. Tables mirror the entity shapes in models.go;
// list-valued columns hold JSON arrays. AUTOINCREMENT keeps ids monotonically
// increasing and never reused, matching the memory backend's counters.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS children (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	date_of_birth TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS workshops (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	learning_goals TEXT NOT NULL DEFAULT '',
	materials TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active',
	image_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS sessions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	workshop_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	notes TEXT NOT NULL DEFAULT '',
	attendees TEXT NOT NULL DEFAULT '',
	images TEXT NOT NULL DEFAULT '',
	audio_url TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS observations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	child_id INTEGER NOT NULL,
	date TEXT NOT NULL,
	type TEXT NOT NULL,
	content TEXT NOT NULL,
	learning_goals TEXT NOT NULL DEFAULT '',
	images TEXT NOT NULL DEFAULT '',
	tagged_moment_id INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS recordings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id INTEGER NOT NULL,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL DEFAULT '',
	media_type TEXT NOT NULL,
	media_url TEXT NOT NULL DEFAULT '',
	transcription TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'recording'
);

CREATE TABLE IF NOT EXISTS tagged_moments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recording_id INTEGER NOT NULL,
	timestamp INTEGER NOT NULL,
	start_offset INTEGER NOT NULL DEFAULT 0,
	end_offset INTEGER NOT NULL DEFAULT 0,
	note TEXT NOT NULL DEFAULT '',
	transcription TEXT NOT NULL DEFAULT '',
	children_ids TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_observations_child ON observations(child_id);
CREATE INDEX IF NOT EXISTS idx_recordings_session ON recordings(session_id);
CREATE INDEX IF NOT EXISTS idx_moments_recording ON tagged_moments(recording_id);
`

var entityTables = []string{
	"children",
	"workshops",
	"sessions",
	"observations",
	"recordings",
	"tagged_moments",
}
