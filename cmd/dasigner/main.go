// Command dasigner runs the 0G DA signer/miner node: the chain-state
// monitor, the signing RPC service, the pruner, and (when enabled) the
// PoDAS sampler/miner.
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/0glabs/0g-da-node/internal/bls254"
	"github.com/0glabs/0g-da-node/internal/chainclient"
	"github.com/0glabs/0g-da-node/internal/chainstate"
	"github.com/0glabs/0g-da-node/internal/config"
	"github.com/0glabs/0g-da-node/internal/erasure"
	"github.com/0glabs/0g-da-node/internal/pruner"
	"github.com/0glabs/0g-da-node/internal/sampler"
	"github.com/0glabs/0g-da-node/internal/signerpb"
	"github.com/0glabs/0g-da-node/internal/signerrpc"
	"github.com/0glabs/0g-da-node/internal/storage"
	"github.com/0glabs/0g-da-node/internal/transactor"
)

func main() {
	app := &cli.App{
		Name:  "dasigner",
		Usage: "0G DA signer/miner node",
		Commands: []*cli.Command{
			startCommand(),
			keygenCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func startCommand() *cli.Command {
	return &cli.Command{
		Name:  "start",
		Usage: "run the signer/miner node",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Required: true, Usage: "path to the TOML config file"},
		},
		Action: func(c *cli.Context) error {
			return runStart(c.String("config"))
		},
	}
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "print a fresh BLS secret scalar and its G1/G2 public key",
		Action: func(c *cli.Context) error {
			return runKeygen()
		},
	}
}

func runKeygen() error {
	sk, err := rand.Int(rand.Reader, fr.Modulus())
	if err != nil {
		return err
	}
	g1 := bls254.PublicKeyG1(sk)
	g1x, g1y := bls254.AffineXY(g1)
	g2 := bls254.PublicKeyG2(sk)
	g2x0, g2x1, g2y0, g2y1 := bls254.AffineXYG2(g2)

	fmt.Printf("secret: %s\n", sk.String())
	fmt.Printf("g1: (%s, %s)\n", g1x, g1y)
	fmt.Printf("g2: ((%s, %s), (%s, %s))\n", g2x0, g2x1, g2y0, g2y1)
	return nil
}

func runStart(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	setLogLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go waitForShutdown(cancel)

	store, err := storage.Open(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	client, err := chainclient.Dial(ctx, cfg.EthRPCEndpoint)
	if err != nil {
		return fmt.Errorf("dial L1: %w", err)
	}

	daEntrance := chainclient.NewDAEntrance(client, common.HexToAddress(cfg.DAEntranceAddress))
	daSigners := chainclient.NewDASigners(client)

	blsKey, err := cfg.BLSKey()
	if err != nil {
		return err
	}
	signerTx, err := transactor.New(client, cfg.SignerEthPrivateKey)
	if err != nil {
		return fmt.Errorf("signer transactor: %w", err)
	}

	if _, ok, err := store.GetSyncProgress(); err != nil {
		return err
	} else if !ok {
		if err := store.PutSyncProgress(cfg.StartBlockNumber); err != nil {
			return err
		}
	}

	monitor := chainstate.New(store, client, daEntrance, daSigners, signerTx, signerTx.From(), blsKey, cfg.SocketAddress, cfg.StartBlockNumber)
	prune := pruner.New(store, daSigners, daEntrance)

	svc := signerrpc.New(signerrpc.Config{
		Storage:              store,
		DASigners:            daSigners,
		Verifier:             erasure.DefaultVerifier{},
		BLSKey:               blsKey,
		Me:                   signerTx.From(),
		MaxOngoingSignReqs:   cfg.MaxOngoingSignReq,
		VerifyWorkerPoolSize: cfg.MaxVerifyThreads,
	})

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return monitor.Run(ctx) })
	g.Go(func() error { return prune.Run(ctx) })
	g.Go(func() error { return runGRPC(ctx, cfg.GRPCListenAddress, svc) })

	if cfg.EnableDAS {
		if cfg.DASTest {
			log.Info("seeding mock DA sample data")
			if err := sampler.SeedMockData(store); err != nil {
				return fmt.Errorf("seed mock data: %w", err)
			}
		}
		daSample := chainclient.NewDASample(client, common.HexToAddress(cfg.DASampleAddress))
		minerTx, err := transactor.New(client, cfg.MinerEthPrivateKey)
		if err != nil {
			return fmt.Errorf("miner transactor: %w", err)
		}
		miner := sampler.NewMiner(store, daSample, minerTx)
		g.Go(func() error { return miner.Run(ctx) })
	}

	return g.Wait()
}

func runGRPC(ctx context.Context, addr string, svc *signerrpc.Service) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	server := grpc.NewServer(
		grpc.ForceServerCodec(signerpb.Codec()),
		grpc.MaxRecvMsgSize(signerpb.MaxMessageSize),
		grpc.MaxSendMsgSize(signerpb.MaxMessageSize),
	)
	signerpb.RegisterSignerServer(server, svc)

	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(lis) }()

	select {
	case <-ctx.Done():
		server.GracefulStop()
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

func waitForShutdown(cancel context.CancelFunc) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
	<-sig
	cancel()
}

func setLogLevel(level string) {
	lvl, err := log.LvlFromString(level)
	if err != nil {
		lvl = log.LvlInfo
	}
	handler := log.NewGlogHandler(log.StreamHandler(os.Stderr, log.TerminalFormat(false)))
	handler.Verbosity(lvl)
	log.Root().SetHandler(handler)
}
