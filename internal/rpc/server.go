package rpc

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pokerloft/chipledger/internal/services/wallet"
	"github.com/pokerloft/chipledger/pkg/walletrpc"
)

// WalletService is the slice of the wallet service the gRPC surface needs.
type WalletService interface {
	Deposit(ctx context.Context, accountID string, amount int64, key string, metadata map[string]string) (*wallet.TxResult, error)
	Withdraw(ctx context.Context, accountID string, amount int64, key, reason string) (*wallet.TxResult, error)
	ReserveForBuyIn(ctx context.Context, accountID, tableID string, amount int64, key string, timeout time.Duration) (*wallet.ReserveResult, error)
	CommitReservation(ctx context.Context, reservationID string) (*wallet.CommitResult, error)
	ReleaseReservation(ctx context.Context, reservationID string) error
	GetBalance(ctx context.Context, accountID string) (*wallet.BalanceResult, error)
	GetLedger(ctx context.Context, accountID string, limit int, cursor int64) (*wallet.LedgerResult, error)
}

// Server adapts the wallet service to the gRPC wire contract. Business-rule
// failures travel in-band as {ok:false, error:CODE}; only infrastructure
// failures become transport-level status errors.
type Server struct {
	walletrpc.UnimplementedWalletServiceServer

	svc WalletService
}

func NewServer(svc WalletService) *Server {
	return &Server{svc: svc}
}

// infraStatus converts an infrastructure failure into a status error without
// leaking internals to the caller.
func infraStatus(op string, err error) error {
	slog.Error("rpc infrastructure failure", "op", op, "error", err)

	return status.Error(codes.Internal, "internal error")
}

func (s *Server) Deposit(ctx context.Context, req *walletrpc.DepositRequest) (*walletrpc.DepositResponse, error) {
	res, err := s.svc.Deposit(ctx, req.AccountID, req.Amount, req.IdempotencyKey, req.Metadata)
	if err != nil {
		if code, ok := wallet.CodeOf(err); ok {
			return &walletrpc.DepositResponse{Error: code}, nil
		}

		return nil, infraStatus("Deposit", err)
	}

	return &walletrpc.DepositResponse{
		OK:            true,
		TransactionID: res.TransactionID,
		BalanceAfter:  res.BalanceAfter,
	}, nil
}

func (s *Server) Withdraw(ctx context.Context, req *walletrpc.WithdrawRequest) (*walletrpc.WithdrawResponse, error) {
	res, err := s.svc.Withdraw(ctx, req.AccountID, req.Amount, req.IdempotencyKey, req.Reason)
	if err != nil {
		if code, ok := wallet.CodeOf(err); ok {
			return &walletrpc.WithdrawResponse{Error: code}, nil
		}

		return nil, infraStatus("Withdraw", err)
	}

	return &walletrpc.WithdrawResponse{
		OK:            true,
		TransactionID: res.TransactionID,
		BalanceAfter:  res.BalanceAfter,
	}, nil
}

func (s *Server) ReserveForBuyIn(ctx context.Context, req *walletrpc.ReserveForBuyInRequest) (*walletrpc.ReserveForBuyInResponse, error) {
	timeout := time.Duration(req.TimeoutSeconds) * time.Second

	res, err := s.svc.ReserveForBuyIn(ctx, req.AccountID, req.TableID, req.Amount, req.IdempotencyKey, timeout)
	if err != nil {
		if code, ok := wallet.CodeOf(err); ok {
			return &walletrpc.ReserveForBuyInResponse{Error: code}, nil
		}

		return nil, infraStatus("ReserveForBuyIn", err)
	}

	return &walletrpc.ReserveForBuyInResponse{
		OK:               true,
		ReservationID:    res.ReservationID,
		AvailableBalance: res.AvailableBalance,
	}, nil
}

func (s *Server) CommitReservation(ctx context.Context, req *walletrpc.CommitReservationRequest) (*walletrpc.CommitReservationResponse, error) {
	res, err := s.svc.CommitReservation(ctx, req.ReservationID)
	if err != nil {
		if code, ok := wallet.CodeOf(err); ok {
			return &walletrpc.CommitReservationResponse{Error: code}, nil
		}

		return nil, infraStatus("CommitReservation", err)
	}

	return &walletrpc.CommitReservationResponse{
		OK:            true,
		TransactionID: res.TransactionID,
		NewBalance:    res.NewBalance,
	}, nil
}

func (s *Server) ReleaseReservation(ctx context.Context, req *walletrpc.ReleaseReservationRequest) (*walletrpc.ReleaseReservationResponse, error) {
	err := s.svc.ReleaseReservation(ctx, req.ReservationID)
	if err != nil {
		if code, ok := wallet.CodeOf(err); ok {
			return &walletrpc.ReleaseReservationResponse{Error: code}, nil
		}

		return nil, infraStatus("ReleaseReservation", err)
	}

	return &walletrpc.ReleaseReservationResponse{OK: true}, nil
}

func (s *Server) GetBalance(ctx context.Context, req *walletrpc.GetBalanceRequest) (*walletrpc.GetBalanceResponse, error) {
	res, err := s.svc.GetBalance(ctx, req.AccountID)
	if err != nil {
		if code, ok := wallet.CodeOf(err); ok {
			return &walletrpc.GetBalanceResponse{Error: code}, nil
		}

		return nil, infraStatus("GetBalance", err)
	}

	return &walletrpc.GetBalanceResponse{
		OK:               true,
		Balance:          res.Balance,
		AvailableBalance: res.AvailableBalance,
	}, nil
}

func (s *Server) GetLedger(ctx context.Context, req *walletrpc.GetLedgerRequest) (*walletrpc.GetLedgerResponse, error) {
	res, err := s.svc.GetLedger(ctx, req.AccountID, int(req.Limit), req.Cursor)
	if err != nil {
		if code, ok := wallet.CodeOf(err); ok {
			return &walletrpc.GetLedgerResponse{Error: code}, nil
		}

		return nil, infraStatus("GetLedger", err)
	}

	entries := make([]*walletrpc.LedgerEntry, 0, len(res.Entries))
	for _, e := range res.Entries {
		entries = append(entries, &walletrpc.LedgerEntry{
			EntryID:          e.EntryID,
			TransactionID:    e.TransactionID,
			AccountID:        e.AccountID,
			Type:             string(e.Type),
			Amount:           e.Amount,
			BalanceBefore:    e.BalanceBefore,
			BalanceAfter:     e.BalanceAfter,
			Metadata:         e.Metadata,
			TimestampMillis:  e.CreatedAt.UnixMilli(),
			PreviousChecksum: e.PreviousChecksum,
			Checksum:         e.Checksum,
		})
	}

	return &walletrpc.GetLedgerResponse{
		OK:             true,
		Entries:        entries,
		LatestChecksum: res.LatestChecksum,
		NextCursor:     res.NextCursor,
	}, nil
}
