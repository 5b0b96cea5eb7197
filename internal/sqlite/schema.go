package sqlite

// Schema DDL for the objects table. position keeps store insertion order.
const createObjects = `CREATE TABLE IF NOT EXISTS objects (
    key TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    class TEXT NOT NULL,
    data TEXT NOT NULL
);`

const (
	selectObjects = `SELECT key, data FROM objects ORDER BY position`
	deleteObjects = `DELETE FROM objects`
	insertObject  = `INSERT INTO objects (key, position, class, data) VALUES (?, ?, ?, ?)`
)
