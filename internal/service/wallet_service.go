package service

import (
	"fmt"

	"github.com/elvinbay/sinaq/internal/dto"
	"github.com/elvinbay/sinaq/internal/repository"
	"github.com/jinzhu/copier"
)

// WalletService is the read side of prize money: balance and award history.
type WalletService interface {
	GetBalance(studentID uint) (*dto.BalanceResponseDTO, error)
	ListPrizeAwards(studentID uint) ([]dto.PrizeAwardResponseDTO, error)
}

type walletService struct {
	userRepo  repository.UserRepository
	awardRepo repository.PrizeAwardRepository
}

func NewWalletService(userRepo repository.UserRepository, awardRepo repository.PrizeAwardRepository) WalletService {
	return &walletService{userRepo: userRepo, awardRepo: awardRepo}
}

func (s *walletService) GetBalance(studentID uint) (*dto.BalanceResponseDTO, error) {
	user, err := s.userRepo.FindByID(studentID)
	if err != nil {
		return nil, fmt.Errorf("student not found with ID %d: %w", studentID, err)
	}
	return &dto.BalanceResponseDTO{StudentID: user.ID, Balance: user.Balance}, nil
}

func (s *walletService) ListPrizeAwards(studentID uint) ([]dto.PrizeAwardResponseDTO, error) {
	awards, err := s.awardRepo.ListByStudent(studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list prize awards for student %d: %w", studentID, err)
	}
	var dtos []dto.PrizeAwardResponseDTO
	copier.Copy(&dtos, &awards)
	return dtos, nil
}
