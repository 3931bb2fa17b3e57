package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/config"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	got := DSN(config.DatabaseConfig{
		DBHost:     " db.local ",
		DBPort:     "5432",
		DBUser:     "matcher",
		DBPassword: `p@ss word'\x`,
		DBName:     "talent",
		DBSSLMode:  "disable",
	})
	assert.Equal(t, `host=db.local port=5432 user=matcher password='p@ss word\'\\x' dbname=talent sslmode=disable`, got)

	assert.Equal(t, "host=h dbname=d", DSN(config.DatabaseConfig{DBHost: "h", DBName: "d"}))
}

func TestDSN_RoundTripsThroughPgx(t *testing.T) {
	cfg := config.DatabaseConfig{
		DBHost: "localhost", DBPort: "5433", DBUser: "u", DBPassword: "a b'c", DBName: "n", DBSSLMode: "disable",
	}
	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	require.NoError(t, err)
	assert.Equal(t, "a b'c", pcfg.ConnConfig.Password)
	assert.Equal(t, uint16(5433), pcfg.ConnConfig.Port)
}

func TestApplyPoolConfig(t *testing.T) {
	pcfg, err := pgxpool.ParseConfig("host=localhost dbname=n")
	require.NoError(t, err)

	applyPoolConfig(pcfg, config.DatabaseConfig{
		ConnectTimeout:      3 * time.Second,
		PoolMaxConns:        12,
		PoolMinConns:        20,
		PoolMaxConnLifetime: time.Hour,
	})
	assert.Equal(t, 3*time.Second, pcfg.ConnConfig.ConnectTimeout)
	assert.Equal(t, int32(12), pcfg.MaxConns)
	assert.Equal(t, int32(0), pcfg.MinConns)
	assert.Equal(t, time.Hour, pcfg.MaxConnLifetime)
}

type stubQuerier struct {
	tag      string
	err      error
	lastSQL  string
	lastArgs []any
}

func (s *stubQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	s.lastSQL, s.lastArgs = sql, args
	return pgconn.NewCommandTag(s.tag), s.err
}

func (s *stubQuerier) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	s.lastSQL, s.lastArgs = sql, args
	return nil, s.err
}

func (s *stubQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	s.lastSQL, s.lastArgs = sql, args
	return errRow{err: s.err}
}

func TestSession_Exec(t *testing.T) {
	q := &stubQuerier{tag: "UPDATE 3"}
	n, err := session{q: q}.Exec(context.Background(), "UPDATE match_scores SET overall_score = $1", 70)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.Equal(t, []any{70}, q.lastArgs)

	boom := errors.New("conn reset")
	n, err = session{q: &stubQuerier{tag: "UPDATE 3", err: boom}}.Exec(context.Background(), "UPDATE x")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
}

func TestSession_QueryErrors(t *testing.T) {
	boom := errors.New("syntax error")
	s := session{q: &stubQuerier{err: boom}}

	rows, err := s.Query(context.Background(), "SELECT")
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, rows)
	assert.ErrorIs(t, s.QueryRow(context.Background(), "SELECT").Scan(), boom)
}

func TestPool_NotConnected(t *testing.T) {
	ctx := context.Background()
	for name, p := range map[string]*Pool{"nil": nil, "empty": {}} {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, p.Ping(ctx), ErrNoPool)
			_, err := p.Exec(ctx, "SELECT 1")
			assert.ErrorIs(t, err, ErrNoPool)
			_, err = p.Query(ctx, "SELECT 1")
			assert.ErrorIs(t, err, ErrNoPool)
			var one int
			assert.ErrorIs(t, p.QueryRow(ctx, "SELECT 1").Scan(&one), ErrNoPool)
			_, err = p.Begin(ctx)
			assert.ErrorIs(t, err, ErrNoPool)
			assert.Nil(t, p.SQLDB())
			assert.NoError(t, p.Close())
		})
	}
}
