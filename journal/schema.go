package journal

const Schema = `
CREATE TABLE IF NOT EXISTS scores (
	time DATETIME NOT NULL,
	nickname TEXT NOT NULL,
	label TEXT NOT NULL,
	symbol TEXT NOT NULL,
	final_equity REAL NOT NULL,
	roi_percent REAL NOT NULL,
	score REAL NOT NULL,
	avg_return_pct REAL NOT NULL,
	profit REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS feedback (
	time DATETIME NOT NULL,
	nickname TEXT NOT NULL,
	message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scores_time ON scores(time);
`
