package scantoken

import "go.uber.org/fx"

// Module provides the scan token codec.
var Module = fx.Provide(New)
