/*
Package utils provides decorators shared by all message handlers:
panic recovery, logging, transaction savepoints and action tagging.
*/
package utils
