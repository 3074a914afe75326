// Copyright (C) 2019-2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package reviewvm

import (
	"fmt"
	"unicode/utf8"

	"github.com/ava-labs/reviewvm/program"
)

const (
	TagAdd uint8 = iota
	TagUpdate
	TagDelete
)

// Command is one decoded review instruction. The set is closed: the only
// implementations are AddReview, UpdateReview and DeleteReview.
type Command interface {
	Tag() uint8
	isCommand()
}

// AddReview creates the review slot derived from the signer and [Title].
type AddReview struct {
	Title  string `json:"title"`
	Rating uint8  `json:"rating"`
	Review string `json:"review"`
}

// UpdateReview replaces the rating and text of an existing review. [Title]
// only locates the slot; it is never written.
type UpdateReview struct {
	Title  string `json:"title"`
	Rating uint8  `json:"rating"`
	Review string `json:"review"`
}

// DeleteReview closes the review slot and refunds its balance.
type DeleteReview struct {
	Title string `json:"title"`
}

func (AddReview) Tag() uint8    { return TagAdd }
func (UpdateReview) Tag() uint8 { return TagUpdate }
func (DeleteReview) Tag() uint8 { return TagDelete }

func (AddReview) isCommand()    {}
func (UpdateReview) isCommand() {}
func (DeleteReview) isCommand() {}

func invalidData(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", program.ErrInvalidInstructionData, fmt.Sprintf(format, args...))
}

// Decode parses [data] into the command it encodes. Only the commands
// supported by [variant] are accepted. Every failure wraps
// program.ErrInvalidInstructionData. No semantic validation is done here.
func Decode(data []byte, variant Variant) (Command, error) {
	if len(data) == 0 {
		return nil, invalidData("empty instruction")
	}
	tag, rest := data[0], data[1:]
	if !variant.Supports(tag) {
		return nil, invalidData("unknown instruction tag %d", tag)
	}

	d := newDecoder(rest)
	var (
		cmd Command
		err error
	)
	switch tag {
	case TagAdd:
		var c AddReview
		c.Title, c.Rating, c.Review, err = decodeReviewFields(d)
		cmd = c
	case TagUpdate:
		var c UpdateReview
		c.Title, c.Rating, c.Review, err = decodeReviewFields(d)
		cmd = c
	case TagDelete:
		var c DeleteReview
		c.Title, err = decodeText(d, "title")
		cmd = c
	}
	if err != nil {
		return nil, err
	}
	if d.Remaining() != 0 {
		return nil, invalidData("%d trailing bytes", d.Remaining())
	}
	return cmd, nil
}

func decodeReviewFields(d *decoder) (string, uint8, string, error) {
	title, err := decodeText(d, "title")
	if err != nil {
		return "", 0, "", err
	}
	rating, err := d.ReadUint8()
	if err != nil {
		return "", 0, "", invalidData("rating: %v", err)
	}
	review, err := decodeText(d, "review")
	if err != nil {
		return "", 0, "", err
	}
	return title, rating, review, nil
}

func decodeText(d *decoder, field string) (string, error) {
	s, err := d.readString()
	if err != nil {
		return "", invalidData("%s: %v", field, err)
	}
	if !utf8.ValidString(s) {
		return "", invalidData("%s is not valid utf-8", field)
	}
	return s, nil
}

// Encode serializes [cmd] into instruction data.
func Encode(cmd Command) ([]byte, error) {
	switch c := cmd.(type) {
	case AddReview:
		return encodeReviewFields(TagAdd, c.Title, c.Rating, c.Review)
	case UpdateReview:
		return encodeReviewFields(TagUpdate, c.Title, c.Rating, c.Review)
	case DeleteReview:
		e := newEncoder(1 + stringLen + len(c.Title))
		if err := e.writeUint8(TagDelete); err != nil {
			return nil, err
		}
		if err := e.writeString(c.Title); err != nil {
			return nil, err
		}
		return e.bytes(), nil
	default:
		return nil, fmt.Errorf("unexpected command type %T", cmd)
	}
}

func encodeReviewFields(tag uint8, title string, rating uint8, review string) ([]byte, error) {
	e := newEncoder(1 + stringLen + len(title) + 1 + stringLen + len(review))
	if err := e.writeUint8(tag); err != nil {
		return nil, err
	}
	if err := e.writeString(title); err != nil {
		return nil, err
	}
	if err := e.writeUint8(rating); err != nil {
		return nil, err
	}
	if err := e.writeString(review); err != nil {
		return nil, err
	}
	return e.bytes(), nil
}
