// Package upload stages client file uploads outside the WebSocket
// session. The browser POSTs the file to the upload handler, receives a
// temp ID, and sends that ID over the session as an ordinary event; the
// component handler then claims the file from the store.
//
// Two stores ship with the package: DiskStore for single-node
// deployments and S3Store for bucket-backed staging.
package upload
