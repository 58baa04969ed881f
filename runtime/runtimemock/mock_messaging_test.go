// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runtimemock

import (
	"testing"

	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestMockMessagingRecordsIsend(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msg := NewMockMessaging(ctrl)
	req := NewMockRequest(ctrl)
	req.EXPECT().Wait().Return(nil)
	msg.EXPECT().Isend(3, 7, gomock.Any()).Return(req, nil)

	got, err := msg.Isend(3, 7, []byte{1, 2, 3})
	assert.NoError(t, err)
	assert.NoError(t, got.Wait())
}
