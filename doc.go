// Copyright 2026 erpsync. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package netsuite-app-sheets automates the export of NetSuite reports and saved searches to Google Sheets worksheets.

netsuite-app-sheets can be used from the command line but is really intended to be run from a cron job (or a CI
runner) to keep a set of Google Sheets worksheets in sync with NetSuite saved searches, writing a timestamped
sync marker into a designated status cell on each run.

netsuite-app-sheets supports the following commands:

  - sync, to download the configured NetSuite reports and upload them to their Google Sheets worksheets
  - download, to export a single NetSuite report to a local file
  - upload, to store a previously exported report file to a Google Sheets worksheet
  - reports, to list the configured report definitions
  - version, to display the application version
*/
package sheets
