package services

const EmailLookupBatch = emailLookupBatch
