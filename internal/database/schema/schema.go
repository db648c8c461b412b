package schema

// SchemaSQL contains the full database schema initialization script.
// Goose migrations under migrations/ apply the same schema incrementally;
// this constant exists for test databases and the devtool setup path.
const SchemaSQL = `
-- Players

CREATE TABLE IF NOT EXISTS players (
    player_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    username VARCHAR(50) UNIQUE NOT NULL,
    display_name VARCHAR(100) NOT NULL,
    email VARCHAR(255) UNIQUE,
    phone VARCHAR(20) UNIQUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Sessions (summaries submitted into duels)

CREATE TABLE IF NOT EXISTS sessions (
    session_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    player_id UUID NOT NULL REFERENCES players(player_id) ON DELETE CASCADE,
    data JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Duels

CREATE TABLE IF NOT EXISTS duels (
    duel_id UUID PRIMARY KEY,
    creator_id UUID NOT NULL REFERENCES players(player_id),
    invited_player_id UUID REFERENCES players(player_id),
    status VARCHAR(30) NOT NULL,
    rules JSONB NOT NULL,
    creator_session_id UUID REFERENCES sessions(session_id),
    invited_session_id UUID REFERENCES sessions(session_id),
    winner_id UUID REFERENCES players(player_id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    started_at TIMESTAMPTZ,
    completed_at TIMESTAMPTZ,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    expires_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_duels_creator ON duels(creator_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_duels_invited ON duels(invited_player_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_duels_status ON duels(status) WHERE status IN ('pending', 'pending_new_player', 'active');

-- Duel invitations

CREATE TABLE IF NOT EXISTS duel_invitations (
    invitation_id UUID PRIMARY KEY,
    duel_id UUID NOT NULL REFERENCES duels(duel_id) ON DELETE CASCADE,
    inviter_id UUID NOT NULL REFERENCES players(player_id),
    method VARCHAR(20) NOT NULL,
    invited_player_id UUID REFERENCES players(player_id),
    contact VARCHAR(255),
    token CHAR(64) UNIQUE NOT NULL,
    message TEXT,
    status VARCHAR(20) NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    responded_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_duel_invitations_pending ON duel_invitations(expires_at) WHERE status = 'pending';

-- Per-player daily invitation quotas

CREATE TABLE IF NOT EXISTS invite_quotas (
    player_id UUID NOT NULL REFERENCES players(player_id) ON DELETE CASCADE,
    channel VARCHAR(20) NOT NULL,
    day DATE NOT NULL,
    used INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (player_id, channel)
);
`
