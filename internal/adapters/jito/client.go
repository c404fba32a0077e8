package jito

// client.go — atomic bundle submitter.
//
// A bundle is packed into a single transaction (borrow, both legs, repay,
// plus the tip transfer), signed, base64 encoded and handed to the block
// engine with sendBundle. The engine either lands the whole transaction or
// drops it; partial fills cannot happen. After sending we poll
// getInflightBundleStatuses until the bundle lands, fails, or the caller's
// deadline expires.

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/Sailo001/SolanaJitoArbBot-sub000/internal/domain"
)

const (
	DefaultBlockEngine = "https://mainnet.block-engine.jito.wtf/api/v1/bundles"

	// One of the published tip accounts of the block engine.
	DefaultTipAccount = "96gYZGLnJYVFmbjzopPSU6QiEV5fGqZNyN9nmNhvrZU5"

	statusPollInterval = 400 * time.Millisecond
)

// Submitter sends bundles to the block engine and awaits their fate.
// Implements ports.BundleSubmitter.
type Submitter struct {
	rpc        *rpc.Client
	http       *http.Client
	endpoint   string
	tipAccount solana.PublicKey
	signer     solana.PrivateKey
}

// NewSubmitter creates a Submitter. rpcEndpoint is a regular Solana RPC node
// (used only for recent blockhashes); blockEngine is the bundle endpoint.
// Empty blockEngine and zero tipAccount fall back to the defaults above.
func NewSubmitter(rpcEndpoint, blockEngine string, tipAccount solana.PublicKey, signer solana.PrivateKey) *Submitter {
	if blockEngine == "" {
		blockEngine = DefaultBlockEngine
	}
	if tipAccount.IsZero() {
		tipAccount = solana.MustPublicKeyFromBase58(DefaultTipAccount)
	}
	return &Submitter{
		rpc:        rpc.New(rpcEndpoint),
		http:       &http.Client{Timeout: 10 * time.Second},
		endpoint:   blockEngine,
		tipAccount: tipAccount,
		signer:     signer,
	}
}

// Submit signs the bundle as one transaction, sends it and polls until it
// lands or ctx expires. Returns the block engine's bundle id on success.
func (s *Submitter) Submit(ctx context.Context, bundle domain.Bundle) (string, error) {
	payer := s.signer.PublicKey()

	recent, err := s.rpc.GetLatestBlockhash(ctx, rpc.CommitmentConfirmed)
	if err != nil {
		return "", fmt.Errorf("jito.Submit: blockhash: %w", err)
	}

	ixs := bundle.Instructions()
	if bundle.Tip > 0 {
		ixs = append(ixs, system.NewTransferInstruction(bundle.Tip, payer, s.tipAccount).Build())
	}

	tx, err := solana.NewTransaction(ixs, recent.Value.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("jito.Submit: build tx: %w", err)
	}

	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &s.signer
		}
		return nil
	}); err != nil {
		return "", fmt.Errorf("jito.Submit: sign: %w", err)
	}

	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("jito.Submit: marshal tx: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	var bundleID string
	if err := s.call(ctx, "sendBundle", []any{
		[]string{encoded},
		map[string]string{"encoding": "base64"},
	}, &bundleID); err != nil {
		return "", fmt.Errorf("jito.Submit: sendBundle: %w", err)
	}

	slog.Debug("bundle sent", "bundle_id", bundleID, "tip", bundle.Tip, "steps", len(bundle.Steps))
	return s.await(ctx, bundleID)
}

// await polls the bundle status until it lands, fails, or ctx expires.
func (s *Submitter) await(ctx context.Context, bundleID string) (string, error) {
	ticker := time.NewTicker(statusPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("jito.Submit: await bundle %s: %w", bundleID, ctx.Err())
		case <-ticker.C:
			status, err := s.inflightStatus(ctx, bundleID)
			if err != nil {
				slog.Debug("bundle status poll failed", "bundle_id", bundleID, "err", err)
				continue
			}
			switch status {
			case "Landed":
				return bundleID, nil
			case "Failed":
				return "", fmt.Errorf("jito.Submit: bundle %s failed on-chain", bundleID)
			}
			// Invalid/Pending: keep polling until the deadline decides.
		}
	}
}

// inflightStatus returns the block engine status for one bundle id.
func (s *Submitter) inflightStatus(ctx context.Context, bundleID string) (string, error) {
	var result inflightStatusesResult
	if err := s.call(ctx, "getInflightBundleStatuses", []any{[]string{bundleID}}, &result); err != nil {
		return "", err
	}
	for _, st := range result.Value {
		if st.BundleID == bundleID {
			return st.Status, nil
		}
	}
	return "", fmt.Errorf("bundle %s not in status response", bundleID)
}

// call does one JSON-RPC roundtrip against the block engine.
func (s *Submitter) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: status %d: %s", method, resp.StatusCode, payload)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("%s: decode: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if err := json.Unmarshal(rpcResp.Result, out); err != nil {
		return fmt.Errorf("%s: decode result: %w", method, err)
	}
	return nil
}
