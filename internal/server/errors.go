// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated is returned by NewServer when there is no router or
// no listen address. A node without a listener cannot take peer deliveries.
var errNoServersAreCreated = errors.New("no http server to run")
