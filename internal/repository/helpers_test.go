package repository

import "rootine/internal/domain"

func groupAward(groupID uint, day string, amount int64) *domain.GroupAward {
	return &domain.GroupAward{GroupID: groupID, AwardDate: day, RewardAmount: amount}
}

func flower(userID uint, kind string, x, y int) *domain.Flower {
	return &domain.Flower{UserID: userID, Name: kind, Type: kind, X: x, Y: y}
}
