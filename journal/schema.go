package journal

const Schema = `
CREATE TABLE IF NOT EXISTS cycles (
	entry_id TEXT PRIMARY KEY,
	asset_class TEXT NOT NULL,
	cycle_id INTEGER NOT NULL,
	time DATETIME NOT NULL,
	strategy_id TEXT NOT NULL,
	status TEXT NOT NULL,
	prompt TEXT NOT NULL,
	reasoning TEXT NOT NULL,
	decisions TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cycles_time ON cycles(time);

CREATE TABLE IF NOT EXISTS equity (
	time DATETIME NOT NULL,
	seq INTEGER NOT NULL,
	asset_class TEXT NOT NULL,
	strategy_id TEXT NOT NULL,
	total_pnl REAL NOT NULL,
	daily_pnl REAL NOT NULL,
	equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_equity_time ON equity(time);
`
