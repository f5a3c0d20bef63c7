package service

import (
	"errors"
	"fmt"
	"time"

	"matclub/internal/models"
	"matclub/internal/repository"
	"matclub/internal/validation"
)

var (
	ErrMemberNotFound = errors.New("member not found")
	ErrNotYourChild   = errors.New("child does not belong to this account")
)

// MemberService handles member profiles, children and belt progression
type MemberService struct {
	memberRepo *repository.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo *repository.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// GetMember retrieves a member by ID
func (s *MemberService) GetMember(memberID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if member == nil {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

// UpdateProfile updates a member's name, date of birth and photo
func (s *MemberService) UpdateProfile(memberID int64, name, dateOfBirth, photoURL string) error {
	if err := validation.ValidateName(name); err != nil {
		return err
	}

	var dob *time.Time
	if dateOfBirth != "" {
		parsed, err := validation.ValidateDateOfBirth(dateOfBirth)
		if err != nil {
			return err
		}
		dob = parsed
	}

	if err := s.memberRepo.UpdateProfile(memberID, name, dob, photoURL); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// AddChild creates a child member under a parent account. Children have no
// login; the parent manages them.
func (s *MemberService) AddChild(parentID int64, name, dateOfBirth string) (*models.Member, error) {
	if err := validation.ValidateName(name); err != nil {
		return nil, err
	}
	dob, err := validation.ValidateDateOfBirth(dateOfBirth)
	if err != nil {
		return nil, err
	}

	parent, err := s.GetMember(parentID)
	if err != nil {
		return nil, err
	}
	if parent.IsChild {
		return nil, errors.New("child accounts cannot have children")
	}

	child, err := s.memberRepo.CreateChildMember(parentID, name, dob)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}
	return child, nil
}

// GetChildren retrieves a parent's child members
func (s *MemberService) GetChildren(parentID int64) ([]models.Member, error) {
	children, err := s.memberRepo.GetChildren(parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get children: %w", err)
	}
	return children, nil
}

// GetChildForParent retrieves a child and verifies it belongs to the parent
func (s *MemberService) GetChildForParent(parentID, childID int64) (*models.Member, error) {
	child, err := s.GetMember(childID)
	if err != nil {
		return nil, err
	}
	if !child.IsChild || child.ParentID == nil || *child.ParentID != parentID {
		return nil, ErrNotYourChild
	}
	return child, nil
}

// UpdateChild updates a child member's profile, verifying ownership
func (s *MemberService) UpdateChild(parentID, childID int64, name, dateOfBirth string) error {
	child, err := s.GetChildForParent(parentID, childID)
	if err != nil {
		return err
	}
	return s.UpdateProfile(child.ID, name, dateOfBirth, child.PhotoURL)
}

// RemoveChild deletes a child member, verifying ownership. Attendance
// history cascades away with the member row.
func (s *MemberService) RemoveChild(parentID, childID int64) error {
	child, err := s.GetChildForParent(parentID, childID)
	if err != nil {
		return err
	}
	if err := s.memberRepo.DeleteMember(child.ID); err != nil {
		return fmt.Errorf("failed to remove child: %w", err)
	}
	return nil
}

// ListMembers retrieves all members (admin view)
func (s *MemberService) ListMembers() ([]models.Member, error) {
	members, err := s.memberRepo.ListMembers()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

// PromoteMember advances a member one step along the belt ladder: a stripe
// if there is room, otherwise the next belt at zero stripes.
func (s *MemberService) PromoteMember(memberID int64) (*models.Member, error) {
	member, err := s.GetMember(memberID)
	if err != nil {
		return nil, err
	}

	belt, stripes := member.NextPromotion()
	if err := s.memberRepo.UpdateBelt(member.ID, belt, stripes); err != nil {
		return nil, fmt.Errorf("failed to promote member: %w", err)
	}
	member.BeltRank = belt
	member.Stripes = stripes
	return member, nil
}

// SetBelt sets a member's rank directly (admin correction)
func (s *MemberService) SetBelt(memberID int64, belt string, stripes int) error {
	if !models.ValidBelt(belt) {
		return fmt.Errorf("unknown belt rank: %s", belt)
	}
	if stripes < 0 || stripes > models.MaxStripes {
		return fmt.Errorf("stripes must be between 0 and %d", models.MaxStripes)
	}
	if err := s.memberRepo.UpdateBelt(memberID, belt, stripes); err != nil {
		return fmt.Errorf("failed to set belt: %w", err)
	}
	return nil
}

// SetAdmin grants or revokes admin rights
func (s *MemberService) SetAdmin(memberID int64, isAdmin bool) error {
	if err := s.memberRepo.SetAdmin(memberID, isAdmin); err != nil {
		return fmt.Errorf("failed to set admin flag: %w", err)
	}
	return nil
}

// DeleteMember removes a member account (admin)
func (s *MemberService) DeleteMember(memberID int64) error {
	if err := s.memberRepo.DeleteMember(memberID); err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return nil
}
