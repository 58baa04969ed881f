// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package runtimemock holds generated gomock doubles for package pattern's
// Messaging and Request interfaces (package runtime's interfaces are not
// mocked here), for use in engine unit tests that need to assert exactly
// which transfers were issued without a real network.
package runtimemock

//go:generate mockgen -write_package_comment=false -package=runtimemock -destination=mock_messaging.go github.com/uva-trasgo/EPSILOD/pattern Messaging,Request
