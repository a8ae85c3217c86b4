// Copyright (c) 2026 The packd developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package progresslog provides periodic logging for snapshot verification.

## Feature Overview

- Maintains cumulative totals about verified snapshots between each logging
  interval
  - Total number of snapshots
  - Total number of script groups
  - Total number of rejected script groups
  - Total number of skipped script groups
- Logs all cumulative data every 10 seconds
- Immediately logs any outstanding data when forced, such as at the end of a
  batch
*/
package progresslog
