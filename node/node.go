package node

import (
	"context"
	"fmt"
	"github.com/idena-network/indance-go/api"
	"github.com/idena-network/indance-go/blockchain"
	"github.com/idena-network/indance-go/config"
	"github.com/idena-network/indance-go/core/state"
	"github.com/idena-network/indance-go/database"
	"github.com/idena-network/indance-go/log"
	"github.com/idena-network/indance-go/stats/collector"
	"github.com/pkg/errors"
	"github.com/rcrowley/go-metrics"
	"github.com/rs/cors"
	dbm "github.com/tendermint/tm-db"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

type Node struct {
	config     *config.Config
	db         dbm.DB
	blockchain *blockchain.Blockchain
	registry   metrics.Registry
	httpServer *http.Server
	listener   net.Listener
	stop       chan struct{}
	log        log.Logger
}

func NewNode(cfg *config.Config) (*Node, error) {
	db, err := database.OpenDatabase(cfg.ResolvePath(config.DatabaseDir), config.DatabaseName, 16, 16)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}
	return newNode(cfg, db)
}

func newNode(config *config.Config, db dbm.DB) (*Node, error) {
	stateDb, err := state.NewLazy(db)
	if err != nil {
		return nil, err
	}
	registry := metrics.NewRegistry()
	chain := blockchain.NewBlockchain(config, db, stateDb, collector.NewMetricsCollector(registry))
	return &Node{
		config:     config,
		db:         db,
		blockchain: chain,
		registry:   registry,
		stop:       make(chan struct{}),
		log:        log.New("component", "node"),
	}, nil
}

func (node *Node) Blockchain() *blockchain.Blockchain {
	return node.blockchain
}

// Start initializes the chain and opens the HTTP endpoint.
func (node *Node) Start() error {
	if err := node.blockchain.InitializeChain(); err != nil {
		return errors.Wrap(err, "failed to initialize chain")
	}

	handler := api.NewHandler(api.NewGameApi(node.blockchain), node.registry)
	handler = cors.New(cors.Options{
		AllowedOrigins: node.config.RPC.CorsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	}).Handler(handler)

	endpoint := fmt.Sprintf("%s:%d", node.config.RPC.HTTPHost, node.config.RPC.HTTPPort)
	listener, err := net.Listen("tcp", endpoint)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %v", endpoint)
	}
	node.listener = listener
	node.httpServer = &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := node.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			node.log.Error("HTTP server stopped", "err", err)
		}
	}()
	node.log.Info("HTTP endpoint opened", "url", fmt.Sprintf("http://%s", listener.Addr().String()))
	return nil
}

// Addr is the address the HTTP endpoint listens on.
func (node *Node) Addr() net.Addr {
	if node.listener == nil {
		return nil
	}
	return node.listener.Addr()
}

func (node *Node) Stop() {
	if node.httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := node.httpServer.Shutdown(ctx); err != nil {
			node.log.Warn("HTTP server shutdown failed", "err", err)
		}
	}
	if err := node.db.Close(); err != nil {
		node.log.Warn("Failed to close database", "err", err)
	}
	close(node.stop)
	node.log.Info("Node stopped")
}

func (node *Node) Wait() {
	<-node.stop
}
