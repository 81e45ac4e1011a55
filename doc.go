// Copyright 2026 The huella-app-sheets Authors. All rights reserved.
// Use of this source code is governed by an MIT-style license
// that can be found in the LICENSE file.

/*
Package huella-app-sheets records attendance against a fingerprint roster stored in a Google Sheets worksheet.

huella-app-sheets runs an HTTP service that matches a captured fingerprint hash against the roster columns of
a worksheet and, on a match, appends a timestamped attendance row to the same worksheet. The fingerprint hash
either arrives in the request body or is read from a USB fingerprint reader attached to the host.

huella-app-sheets supports the following commands:

  - serve, to run the verification HTTP service
  - verify, to verify a single fingerprint hash from the command line
  - get, to download the roster from a Google Sheets worksheet as a TSV file
  - put, to upload a TSV roster file to a Google Sheets worksheet
  - authorise, to authorise access to Google Sheets with OAuth2 client credentials
  - version, to display the application version
*/
package sheets
