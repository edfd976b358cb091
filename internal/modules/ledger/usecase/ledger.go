package usecase

import (
	"context"
	"errors"
	"time"

	"studyledger/internal/modules/ledger/domain"
	"studyledger/internal/modules/ledger/dto"
	ledgerin "studyledger/internal/modules/ledger/port/in"
	"studyledger/internal/modules/ledger/service"
	apperrors "studyledger/internal/platform/errors"
	"studyledger/internal/platform/logger"
	"studyledger/internal/platform/tx"
)

type Interactor struct {
	svc *service.LedgerService
	tx  tx.Manager
	log *logger.Logger
}

func NewInteractor(svc *service.LedgerService, txm tx.Manager, log *logger.Logger) ledgerin.Usecase {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Interactor{svc: svc, tx: txm, log: log.With("module", "ledger")}
}

func (i *Interactor) GetOrInitDaily(ctx context.Context, userID string, date time.Time) (dto.DailyStateOutput, error) {
	var state domain.DailyState
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		state, err = i.svc.GetOrInitDaily(ctx, userID, date)
		return err
	})
	if err != nil {
		return dto.DailyStateOutput{}, err
	}
	return toStateOutput(state), nil
}

func (i *Interactor) SetGoal(ctx context.Context, input dto.SetGoalInput) (dto.DailyStateOutput, error) {
	var state domain.DailyState
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		state, err = i.svc.SetGoal(ctx, input.UserID, input.Date, input.GoalMin)
		return err
	})
	if err != nil {
		return dto.DailyStateOutput{}, err
	}
	i.log.Info("goal_set", "user_id", input.UserID, "date", state.Date, "goal_min", state.GoalMin)
	return toStateOutput(state), nil
}

func (i *Interactor) GrantCoins(ctx context.Context, input dto.CoinsInput) (dto.BalanceOutput, error) {
	day := i.svc.Day(input.Date)
	var balance int
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		balance, err = i.svc.Grant(ctx, input.UserID, day, input.Amount, input.Type, input.Name)
		return err
	})
	if err != nil {
		return dto.BalanceOutput{}, err
	}
	i.log.Info("coins_granted", "user_id", input.UserID, "date", day, "amount", input.Amount, "type", input.Type)
	return dto.BalanceOutput{UserID: input.UserID, Date: day, Balance: balance, Change: input.Amount}, nil
}

func (i *Interactor) SpendCoins(ctx context.Context, input dto.CoinsInput) (dto.BalanceOutput, error) {
	day := i.svc.Day(input.Date)
	var balance int
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		balance, err = i.svc.Spend(ctx, input.UserID, day, input.Amount, input.Type, input.Name)
		return err
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			i.log.Warn("spend_rejected", "user_id", input.UserID, "date", day, "amount", input.Amount)
		}
		return dto.BalanceOutput{}, err
	}
	i.log.Info("coins_spent", "user_id", input.UserID, "date", day, "amount", input.Amount, "type", input.Type)
	return dto.BalanceOutput{UserID: input.UserID, Date: day, Balance: balance, Change: -input.Amount}, nil
}

func (i *Interactor) ComputeStreak(ctx context.Context, userID string, asOf time.Time) (int, error) {
	return i.svc.ComputeStreak(ctx, userID, asOf)
}

func (i *Interactor) RefreshStreak(ctx context.Context, userID string, date time.Time) (int, error) {
	var streak int
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		streak, err = i.svc.RefreshStreak(ctx, userID, date)
		return err
	})
	return streak, err
}

func (i *Interactor) ClaimGoalBonus(ctx context.Context, userID string, date time.Time) (dto.BonusOutput, error) {
	var result service.BonusResult
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		result, err = i.svc.ClaimGoalBonus(ctx, userID, date)
		return err
	})
	if err != nil {
		return dto.BonusOutput{}, err
	}
	if result.Granted {
		i.log.Info("bonus_claimed", "user_id", userID, "date", result.Date, "amount", result.Amount)
	}
	return dto.BonusOutput{
		Date:           result.Date,
		Granted:        result.Granted,
		AlreadyClaimed: result.AlreadyClaimed,
		Amount:         result.Amount,
		MinutesToday:   result.Minutes,
		GoalMin:        result.GoalMin,
		Balance:        result.Balance,
	}, nil
}

func (i *Interactor) Snapshot(ctx context.Context, userID string, date time.Time) (dto.SnapshotOutput, error) {
	var snap service.Snapshot
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		snap, err = i.svc.Snapshot(ctx, userID, date)
		return err
	})
	if err != nil {
		return dto.SnapshotOutput{}, err
	}
	return dto.SnapshotOutput{
		State:        toStateOutput(snap.State),
		MinutesToday: snap.Minutes,
		Streak:       snap.Streak,
		Progress:     snap.Progress,
		BonusClaimed: snap.BonusClaimed,
	}, nil
}

func (i *Interactor) History(ctx context.Context, userID string, limit int) ([]dto.RewardOutput, error) {
	entries, err := i.svc.History(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RewardOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dto.RewardOutput{
			ID:          entry.ID,
			Date:        entry.Date,
			Type:        entry.Type,
			Name:        entry.Name,
			CoinsChange: entry.CoinsChange,
			CreatedAt:   entry.CreatedAt,
		})
	}
	return out, nil
}

func (i *Interactor) WeeklyMinutes(ctx context.Context, userID string, end time.Time, days int) ([]dto.DayMinutesOutput, error) {
	totals, err := i.svc.WeeklyMinutes(ctx, userID, end, days)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DayMinutesOutput, 0, len(totals))
	for _, day := range totals {
		out = append(out, dto.DayMinutesOutput{Date: day.Date, Minutes: day.Minutes, GoalMin: day.GoalMin})
	}
	return out, nil
}

func (i *Interactor) Equip(ctx context.Context, input dto.EquipInput) (dto.DailyStateOutput, error) {
	var state domain.DailyState
	err := i.tx.Within(ctx, func(ctx context.Context) error {
		var err error
		state, err = i.svc.Equip(ctx, input.UserID, input.Date, domain.ItemType(input.ItemType), input.Name)
		return err
	})
	if err != nil {
		return dto.DailyStateOutput{}, err
	}
	i.log.Info("item_equipped", "user_id", input.UserID, "item_type", input.ItemType, "name", input.Name)
	return toStateOutput(state), nil
}

func toStateOutput(state domain.DailyState) dto.DailyStateOutput {
	return dto.DailyStateOutput{
		UserID:         state.UserID,
		Date:           state.Date,
		GoalMin:        state.GoalMin,
		Coins:          state.Coins,
		Streak:         state.Streak,
		EquippedTheme:  state.Equipped.Theme,
		EquippedSound:  state.Equipped.Sound,
		EquippedMascot: state.Equipped.Mascot,
	}
}
