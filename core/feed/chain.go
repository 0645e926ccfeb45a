package feed

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	solana "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/tokenscope/memebot/core/model"
)

// ChainClient reads the mint account straight from RPC. Used as the security
// fallback when the scanner API is down: authorities still set on the mint
// is the one thing verifiable without any third party.
type ChainClient struct {
	rpc *rpc.Client
}

func NewChainClient(rpcURL string) *ChainClient {
	return &ChainClient{rpc: rpc.New(rpcURL)}
}

func (c *ChainClient) CheckSecurity(ctx context.Context, tokenID string) (*model.SecurityReport, error) {
	pub, err := solana.PublicKeyFromBase58(tokenID)
	if err != nil {
		return nil, fmt.Errorf("bad mint address %s, %v", tokenID, err)
	}

	resp, err := c.rpc.GetAccountInfo(ctx, pub)
	if err != nil {
		return nil, fmt.Errorf("get mint account failed, %v", err)
	}
	if resp == nil || resp.Value == nil {
		return nil, fmt.Errorf("mint account %s not found", tokenID)
	}

	var mint token.Mint
	if err := bin.NewBinDecoder(resp.Value.Data.GetBinary()).Decode(&mint); err != nil {
		return nil, fmt.Errorf("decode mint account failed, %v", err)
	}

	if mint.MintAuthority != nil {
		return &model.SecurityReport{Safe: false, Reason: "mint authority still set on-chain"}, nil
	}
	if mint.FreezeAuthority != nil {
		return &model.SecurityReport{Safe: false, Reason: "freeze authority still set on-chain"}, nil
	}

	return &model.SecurityReport{Safe: true}, nil
}
