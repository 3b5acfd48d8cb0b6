package store

import (
	"cmp"
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRESTKV emulates the command paths of the remote key/value service.
// Like a real server it returns set members in no particular order.
type fakeRESTKV struct {
	mu     sync.Mutex
	token  string
	values map[string]string
	sets   map[string][]string
	zsets  map[string]map[string]int64
	fail   bool
	calls  int
}

func newFakeRESTKV(token string) *fakeRESTKV {
	return &fakeRESTKV{
		token:  token,
		values: map[string]string{},
		sets:   map[string][]string{},
		zsets:  map[string]map[string]int64{},
	}
}

// zrange applies redis index rules, negative indices counting from the end.
func (f *fakeRESTKV) zrange(key string, start, stop int) []string {
	members := make([]string, 0, len(f.zsets[key]))
	for m := range f.zsets[key] {
		members = append(members, m)
	}
	scores := f.zsets[key]
	slices.SortFunc(members, func(a, b string) int {
		return cmp.Or(cmp.Compare(scores[a], scores[b]), cmp.Compare(a, b))
	})
	n := len(members)
	if start < 0 {
		start = max(n+start, 0)
	}
	if stop < 0 {
		stop = n + stop
	}
	stop = min(stop, n-1)
	if start > stop {
		return []string{}
	}
	return members[start : stop+1]
}

func (f *fakeRESTKV) reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeRESTKV) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	if r.Header.Get("Authorization") != "Bearer "+f.token {
		f.reply(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
		return
	}
	if f.fail {
		f.reply(w, http.StatusInternalServerError, map[string]any{"error": "boom"})
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "/")
	for i := range parts {
		parts[i], _ = url.PathUnescape(parts[i])
	}
	switch parts[0] {
	case "ping":
		f.reply(w, http.StatusOK, map[string]any{"result": "PONG"})
	case "get":
		v, ok := f.values[parts[1]]
		if !ok {
			f.reply(w, http.StatusOK, map[string]any{"result": nil})
			return
		}
		f.reply(w, http.StatusOK, map[string]any{"result": v})
	case "set":
		var v string
		if len(parts) > 2 {
			v = parts[2]
		} else {
			b, _ := io.ReadAll(r.Body)
			v = string(b)
		}
		f.values[parts[1]] = v
		f.reply(w, http.StatusOK, map[string]any{"result": "OK"})
	case "smembers":
		members := slices.Clone(f.sets[parts[1]])
		if members == nil {
			members = []string{}
		}
		rand.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })
		f.reply(w, http.StatusOK, map[string]any{"result": members})
	case "sadd":
		if !slices.Contains(f.sets[parts[1]], parts[2]) {
			f.sets[parts[1]] = append(f.sets[parts[1]], parts[2])
			f.reply(w, http.StatusOK, map[string]any{"result": 1})
			return
		}
		f.reply(w, http.StatusOK, map[string]any{"result": 0})
	case "zadd":
		score, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			f.reply(w, http.StatusBadRequest, map[string]any{"error": "ERR value is not a valid float"})
			return
		}
		if f.zsets[parts[1]] == nil {
			f.zsets[parts[1]] = map[string]int64{}
		}
		f.zsets[parts[1]][parts[3]] = score
		f.reply(w, http.StatusOK, map[string]any{"result": 1})
	case "zrange":
		start, _ := strconv.Atoi(parts[2])
		stop, _ := strconv.Atoi(parts[3])
		f.reply(w, http.StatusOK, map[string]any{"result": f.zrange(parts[1], start, stop)})
	default:
		f.reply(w, http.StatusBadRequest, map[string]any{"error": "ERR unknown command"})
	}
}

func newTestRemote(t *testing.T) (*RemoteKV, *fakeRESTKV) {
	t.Helper()
	fake := newFakeRESTKV("secret-token")
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	return NewRemoteKV(srv.URL+"/", "secret-token", 2*time.Second), fake
}

func newTestSQLite(t *testing.T) *SQLiteKV {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), DBFileName))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func backends(t *testing.T) map[string]KV {
	remote, _ := newTestRemote(t)
	return map[string]KV{
		"memory": NewMemoryKV(),
		"file":   newTestSQLite(t),
		"remote": remote,
	}
}

func TestKV_Suite(t *testing.T) {
	ctx := context.Background()
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, name, kv.Name())
			require.NoError(t, kv.Ping(ctx))

			_, err := kv.Get(ctx, "word:main:2025-03-10")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, kv.Set(ctx, "word:main:2025-03-10", "planet"))
			v, err := kv.Get(ctx, "word:main:2025-03-10")
			require.NoError(t, err)
			assert.Equal(t, "planet", v)

			require.NoError(t, kv.Set(ctx, "word:main:2025-03-10", "forest"))
			v, err = kv.Get(ctx, "word:main:2025-03-10")
			require.NoError(t, err)
			assert.Equal(t, "forest", v, "set must overwrite")

			members, err := kv.SMembers(ctx, "used:main")
			require.NoError(t, err)
			assert.Empty(t, members)

			for _, m := range []string{"planet", "forest", "planet", "meadow"} {
				require.NoError(t, kv.SAdd(ctx, "used:main", m))
			}
			members, err = kv.SMembers(ctx, "used:main")
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{"planet", "forest", "meadow"}, members)

			recent, err := kv.ZTail(ctx, "used:main:recent", 2)
			require.NoError(t, err)
			assert.Empty(t, recent)
			for i, m := range []string{"planet", "forest", "meadow", "harbor"} {
				require.NoError(t, kv.ZAdd(ctx, "used:main:recent", int64(10+i), m))
			}
			require.NoError(t, kv.ZAdd(ctx, "used:main:recent", 20, "forest"))
			recent, err = kv.ZTail(ctx, "used:main:recent", 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"harbor", "forest"}, recent, "rescoring moves a member to the end")
			recent, err = kv.ZTail(ctx, "used:main:recent", 10)
			require.NoError(t, err)
			assert.Equal(t, []string{"planet", "meadow", "harbor", "forest"}, recent)
			recent, err = kv.ZTail(ctx, "used:main:recent", -1)
			require.NoError(t, err)
			assert.Len(t, recent, 4)

			state := `{"revealedIndices":[1],"qas":[],"formatVersion":2}`
			require.NoError(t, kv.Set(ctx, "puzzle:state:2025-03-10", state))
			v, err = kv.Get(ctx, "puzzle:state:2025-03-10")
			require.NoError(t, err)
			assert.JSONEq(t, state, v)
		})
	}
}

func TestSQLiteKV_PreservesInsertionOrderAndPersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), DBFileName)

	db, err := OpenSQLite(path)
	require.NoError(t, err)
	for _, m := range []string{"zebra", "apple", "mango", "apple"} {
		require.NoError(t, db.SAdd(ctx, "used:puzzle", m))
	}
	require.NoError(t, db.Set(ctx, "word:puzzle:2025-01-01", "zebra"))
	require.NoError(t, db.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	members, err := reopened.SMembers(ctx, "used:puzzle")
	require.NoError(t, err)
	assert.Equal(t, []string{"zebra", "apple", "mango"}, members)

	v, err := reopened.Get(ctx, "word:puzzle:2025-01-01")
	require.NoError(t, err)
	assert.Equal(t, "zebra", v)
}

func TestRemoteKV_Errors(t *testing.T) {
	ctx := context.Background()
	remote, fake := newTestRemote(t)

	fake.fail = true
	_, err := remote.Get(ctx, "word:main:2025-03-10")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "boom")
	assert.Error(t, remote.SAdd(ctx, "used:main", "x"))

	bad := NewRemoteKV(strings.TrimSuffix(remote.client.BaseURL, "/"), "wrong", time.Second)
	fake.fail = false
	_, err = bad.Get(ctx, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestRemoteKV_EscapesKeys(t *testing.T) {
	ctx := context.Background()
	remote, fake := newTestRemote(t)
	require.NoError(t, remote.Set(ctx, "word:main:2025-03-10", "a/b c"))
	assert.Equal(t, "a/b c", fake.values["word:main:2025-03-10"])
}
