package walletrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// WalletServiceClient is the client API of the wallet service.
type WalletServiceClient interface {
	Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*DepositResponse, error)
	Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*WithdrawResponse, error)
	ReserveForBuyIn(ctx context.Context, in *ReserveForBuyInRequest, opts ...grpc.CallOption) (*ReserveForBuyInResponse, error)
	CommitReservation(ctx context.Context, in *CommitReservationRequest, opts ...grpc.CallOption) (*CommitReservationResponse, error)
	ReleaseReservation(ctx context.Context, in *ReleaseReservationRequest, opts ...grpc.CallOption) (*ReleaseReservationResponse, error)
	GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error)
	GetLedger(ctx context.Context, in *GetLedgerRequest, opts ...grpc.CallOption) (*GetLedgerResponse, error)
}

type walletServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWalletServiceClient(cc grpc.ClientConnInterface) WalletServiceClient {
	return &walletServiceClient{cc: cc}
}

// Dial opens a plaintext connection to a wallet service and returns a client
// using the JSON wire encoding.
func Dial(target string, opts ...grpc.DialOption) (WalletServiceClient, *grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, err
	}
	return NewWalletServiceClient(conn), conn, nil
}

func (c *walletServiceClient) Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*DepositResponse, error) {
	out := new(DepositResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Deposit", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletServiceClient) Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*WithdrawResponse, error) {
	out := new(WithdrawResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/Withdraw", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletServiceClient) ReserveForBuyIn(ctx context.Context, in *ReserveForBuyInRequest, opts ...grpc.CallOption) (*ReserveForBuyInResponse, error) {
	out := new(ReserveForBuyInResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ReserveForBuyIn", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletServiceClient) CommitReservation(ctx context.Context, in *CommitReservationRequest, opts ...grpc.CallOption) (*CommitReservationResponse, error) {
	out := new(CommitReservationResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/CommitReservation", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletServiceClient) ReleaseReservation(ctx context.Context, in *ReleaseReservationRequest, opts ...grpc.CallOption) (*ReleaseReservationResponse, error) {
	out := new(ReleaseReservationResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/ReleaseReservation", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	out := new(GetBalanceResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetBalance", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *walletServiceClient) GetLedger(ctx context.Context, in *GetLedgerRequest, opts ...grpc.CallOption) (*GetLedgerResponse, error) {
	out := new(GetLedgerResponse)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/GetLedger", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
