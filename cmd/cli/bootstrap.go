package cli

// -----------------------------------------------------------------------------
// bootstrap.go – shared engine construction for the xtc-engine CLI
// -----------------------------------------------------------------------------
// Every command-group file (wallet.go, ledger.go, history.go, admin.go) calls
// ensureEngine() from its own PersistentPreRunE, mirroring the teacher's
// per-file sync.Once middleware (cmd/cli/coin.go), but all groups share the
// single Engine built here instead of each owning its own ledger.
// -----------------------------------------------------------------------------

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/psychedelic/xtc-engine/core"
	"github.com/psychedelic/xtc-engine/pkg/config"
	"github.com/psychedelic/xtc-engine/pkg/utils"
)

var (
	bootOnce       sync.Once
	bootErr        error
	sharedEngine   *core.Engine
	sharedPlatform *core.SimPlatform
	sharedBackend  *core.SimBackend
)

func ensureEngine() error {
	bootOnce.Do(func() {
		_ = godotenv.Load()

		lvl := utils.EnvOrDefault("LOG_LEVEL", "info")
		lv, err := logrus.ParseLevel(lvl)
		if err != nil {
			bootErr = utils.Wrap(err, "parse log level")
			return
		}
		logrus.SetLevel(lv)

		cfg, err := config.LoadFromEnv()
		if err != nil {
			logrus.WithError(err).Warn("cli: no config file found, using defaults")
			cfg = &config.Config{}
		}

		flushThreshold := cfg.Engine.FlushThreshold
		if flushThreshold == 0 {
			flushThreshold = utils.EnvOrDefaultInt("XTC_FLUSH_THRESHOLD", 2048)
		}
		chunkSize := cfg.Engine.ChunkSize
		if chunkSize == 0 {
			chunkSize = utils.EnvOrDefaultInt("XTC_CHUNK_SIZE", 64)
		}
		bucketCap := cfg.Engine.BucketEventCap
		if bucketCap == 0 {
			bucketCap = utils.EnvOrDefaultInt("XTC_BUCKET_EVENT_CAP", 4096)
		}

		var controller core.Address
		ctrlHex := cfg.Engine.Controller
		if ctrlHex == "" {
			ctrlHex = utils.EnvOrDefault("XTC_CONTROLLER", "")
		}
		if ctrlHex != "" {
			controller, err = decodeAddr(ctrlHex)
			if err != nil {
				bootErr = utils.Wrap(err, "parse controller address")
				return
			}
		}

		fee := core.NewFlatRateFee()
		if cfg.Engine.FeeFloor != 0 {
			fee.Floor = cfg.Engine.FeeFloor
		}
		if cfg.Engine.FeeDivisor != 0 {
			fee.Divisor = cfg.Engine.FeeDivisor
		}

		sharedBackend = core.NewSimBackend(bucketCap)
		sharedPlatform = core.NewSimPlatform()
		sharedEngine = core.NewEngine(core.EngineConfig{
			Controller:     controller,
			FlushThreshold: flushThreshold,
			ChunkSize:      chunkSize,
			Backend:        sharedBackend,
			Platform:       sharedPlatform,
			Fee:            fee,
		})
	})
	return bootErr
}

func decodeAddr(h string) (core.Address, error) {
	var a core.Address
	b, err := hex.DecodeString(strings.TrimPrefix(h, "0x"))
	if err != nil || len(b) != len(a) {
		return a, fmt.Errorf("invalid address %q", h)
	}
	copy(a[:], b)
	return a, nil
}

func encodeAddr(a core.Address) string {
	return "0x" + hex.EncodeToString(a[:])
}

func parseAmount(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be a non-negative uint64: %w", err)
	}
	return n, nil
}
