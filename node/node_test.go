package node

import (
	"encoding/json"
	"fmt"
	"github.com/idena-network/indance-go/config"
	"github.com/stretchr/testify/require"
	dbm "github.com/tendermint/tm-db"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

func TestNode_StartStop(t *testing.T) {
	require := require.New(t)
	cfg := config.GetDefaultConfig()
	cfg.RPC.HTTPHost = "127.0.0.1"
	cfg.RPC.HTTPPort = 0

	node, err := newNode(cfg, dbm.NewMemDB())
	require.NoError(err)
	require.NoError(node.Start())
	require.Equal(uint64(1), node.Blockchain().GetHead().Height)

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("http://%v/params", node.Addr()), nil)
	require.NoError(err)
	req.Header.Set("Origin", "http://example.com")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(err)
	defer resp.Body.Close()
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Equal("*", resp.Header.Get("Access-Control-Allow-Origin"))

	var params map[string]interface{}
	require.NoError(json.NewDecoder(resp.Body).Decode(&params))
	require.Equal("mint", params["tokenMode"])

	node.Stop()
	node.Wait()
}

func TestNewNode_DatabaseInDataDir(t *testing.T) {
	require := require.New(t)
	dir, err := ioutil.TempDir("", "indance")
	require.NoError(err)
	defer os.RemoveAll(dir)

	cfg := config.GetDefaultConfig()
	cfg.DataDir = dir
	node, err := NewNode(cfg)
	require.NoError(err)
	defer node.Stop()

	_, err = os.Stat(filepath.Join(dir, config.DatabaseDir, config.DatabaseName+".db"))
	require.NoError(err)
}
